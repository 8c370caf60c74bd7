package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rzbill/botconfig/pkg/types"
)

// Error categories
const (
	CategoryFileNotFound = "FILE_NOT_FOUND"
	CategoryParse        = "PARSE_ERROR"
	CategoryValidation   = "VALIDATION_ERROR"
	CategoryDecryption   = "DECRYPTION_ERROR"
	CategoryNotFound     = "NOT_FOUND"
	CategoryGeneral      = "GENERAL_ERROR"
)

var hintTemplates = map[string]string{
	CategoryFileNotFound: "Pass --bot <file>, or run in a directory holding exactly one .bot file.",
	CategoryParse:        "Check that the bot file is valid JSON (or YAML for .yaml/.yml files).",
	CategoryValidation:   "A bot file needs a name and a services list; every service needs a type.",
	CategoryDecryption:   "Check the secret given with --secret, --secret-file, --prompt-secret or $BOTCONFIG_SECRET.",
	CategoryNotFound:     "Run 'botconfig list' to see the services in this bot file.",
}

// Categorize maps an error onto one of the Category constants.
func Categorize(err error) string {
	switch {
	case types.IsFileNotFoundError(err):
		return CategoryFileNotFound
	case types.IsParseError(err):
		return CategoryParse
	case types.IsValidationError(err):
		return CategoryValidation
	case types.IsDecryptionError(err):
		return CategoryDecryption
	case types.IsNotFoundError(err):
		return CategoryNotFound
	default:
		return CategoryGeneral
	}
}

// Hint returns a suggestion for fixing err, or "" when there is none.
func Hint(err error) string {
	return hintTemplates[Categorize(err)]
}

// PrintError writes err with a heading and, when one applies, a hint.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	indent := "  "
	fmt.Fprintln(w, ErrorColor.Sprintf("× %s", heading(err)))

	var de *types.DecryptionError
	if errors.As(err, &de) && de.Service != "" {
		fmt.Fprintf(w, "%s%s\n", indent, Label("Service", FileColor.Sprint(de.Service)))
		fmt.Fprintf(w, "%s%s\n", indent, Label("Field", de.Field))
	}

	fmt.Fprintf(w, "%s%s\n", indent, err.Error())
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(w, "%s%s\n", indent, HintColor.Sprintf("Hint: %s", hint))
	}
}

func heading(err error) string {
	category := Categorize(err)
	if category == CategoryGeneral {
		return "ERROR"
	}
	return strings.ReplaceAll(category, "_", " ")
}
