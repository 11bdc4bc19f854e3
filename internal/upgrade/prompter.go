package upgrade

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/temirov/pyport/internal/utils"
)

const (
	acceptResponseConstant  = "y"
	declineResponseConstant = "n"
)

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: utils.NewFlushingWriter(output)}
}

// Confirm writes the prompt and reads one line. After trimming and lower-casing, "y" accepts, "n" declines,
// and anything else, including end of input, is invalid.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (Decision, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return DecisionInvalid, writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return DecisionInvalid, readError
	}

	return InterpretResponse(response), nil
}

// InterpretResponse maps a raw confirmation answer to a Decision.
func InterpretResponse(response string) Decision {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case acceptResponseConstant:
		return DecisionAccepted
	case declineResponseConstant:
		return DecisionDeclined
	default:
		return DecisionInvalid
	}
}
