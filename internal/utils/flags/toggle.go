package flags

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueValueConstant          = "true"
	toggleFalseValueConstant         = "false"
	toggleTypeNameConstant           = "bool"
	toggleParseErrorTemplateConstant = "invalid toggle value %q, expected yes or no"
	toggleUsageTemplateConstant      = "%s (default %s)"
	toggleDefaultYesConstant         = "yes"
	toggleDefaultNoConstant          = "no"
	longFlagPrefixConstant           = "--"
	shortFlagPrefixConstant          = "-"
	flagValueSeparatorConstant       = "="
)

var toggleLiterals = map[string]bool{
	"true": true, "yes": true, "y": true, "on": true, "1": true, "t": true,
	"false": false, "no": false, "n": false, "off": false, "0": false, "f": false,
}

type toggleRegistry struct {
	mutex      sync.RWMutex
	names      map[string]struct{}
	shorthands map[string]struct{}
}

func (registry *toggleRegistry) register(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.names[name] = struct{}{}
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = struct{}{}
	}
}

func (registry *toggleRegistry) accepts(flagName string, isShorthand bool) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	known := registry.names
	if isShorthand {
		known = registry.shorthands
	}
	_, exists := known[flagName]
	return exists
}

var registeredToggles = &toggleRegistry{names: map[string]struct{}{}, shorthands: map[string]struct{}{}}

// AddToggleFlag registers a boolean flag that also accepts yes/no, on/off, and y/n values.
// "--name" alone sets the flag to true. A nil target keeps the value inside the flag set for GetBool.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	if target == nil {
		target = new(bool)
	}

	*target = defaultValue
	registeredFlag := flagSet.VarPF((*toggleValue)(target), name, shorthand, describeToggle(usage, defaultValue))
	registeredFlag.NoOptDefVal = toggleTrueValueConstant
	registeredFlag.DefValue = strconv.FormatBool(defaultValue)

	registeredToggles.register(name, shorthand)
}

// NormalizeToggleArguments joins a toggle flag with a following non-flag value, so "--yes no" parses as "--yes=no".
// Arguments after "--" are left untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == longFlagPrefixConstant {
			return append(normalized, arguments[index:]...)
		}
		if index+1 < len(arguments) && expectsSeparateValue(argument) && !strings.HasPrefix(arguments[index+1], shortFlagPrefixConstant) {
			normalized = append(normalized, argument+flagValueSeparatorConstant+arguments[index+1])
			index++
			continue
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func expectsSeparateValue(argument string) bool {
	if strings.Contains(argument, flagValueSeparatorConstant) {
		return false
	}
	if flagName, isLong := strings.CutPrefix(argument, longFlagPrefixConstant); isLong {
		return len(flagName) > 0 && registeredToggles.accepts(flagName, false)
	}
	if shorthand, isShort := strings.CutPrefix(argument, shortFlagPrefixConstant); isShort {
		return len(shorthand) == 1 && registeredToggles.accepts(shorthand, true)
	}
	return false
}

func describeToggle(usage string, defaultValue bool) string {
	defaultLiteral := toggleDefaultNoConstant
	if defaultValue {
		defaultLiteral = toggleDefaultYesConstant
	}
	return fmt.Sprintf(toggleUsageTemplateConstant, strings.TrimSpace(usage), defaultLiteral)
}

type toggleValue bool

func (value *toggleValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleTrueValueConstant
	}
	parsedValue, recognized := toggleLiterals[normalizedValue]
	if !recognized {
		return fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}
	*value = toggleValue(parsedValue)
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || !bool(*value) {
		return toggleFalseValueConstant
	}
	return toggleTrueValueConstant
}

func (value *toggleValue) Type() string {
	return toggleTypeNameConstant
}
