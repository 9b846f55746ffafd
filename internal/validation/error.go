package validation

import (
	"errors"
	"fmt"
	"sort"
)

// Errors maps a form field to the message shown next to it. A field without
// an entry is valid.
type Errors map[string]string

func New() Errors {
	return make(Errors)
}

// Add records msg for field unless the field already failed.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; ok {
		return
	}

	e[field] = msg
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]

	return ok
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}

	return &InputError{fields: e}
}

type InputError struct {
	fields Errors
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) Error() string {
	keys := make([]string, 0, len(ie.fields))
	for k := range ie.fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, ie.fields[k]))
	}

	return fmt.Sprintf("%+v", pairs)
}

func (ie *InputError) Fields() Errors {
	return ie.fields
}
