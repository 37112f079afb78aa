package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := NewRemote(503, nil, "catalog returned status %d", 503)
	assert.Equal(t, "remote error (code 503): catalog returned status 503", err.Error())

	err = NewValidation("enter y or n")
	assert.Equal(t, "validation error: enter y or n", err.Error())
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		remote     bool
		protocol   bool
		validation bool
		fetch      bool
	}{
		{name: "remote", err: NewRemote(0, io.ErrUnexpectedEOF, "network"), remote: true, fetch: true},
		{name: "protocol", err: NewProtocol(200, nil, "missing results"), protocol: true, fetch: true},
		{name: "validation", err: NewValidation("bad answer"), validation: true},
		{name: "wrapped remote", err: fmt.Errorf("fetch page: %w", NewRemote(500, nil, "server")), remote: true, fetch: true},
		{name: "plain", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.remote, IsRemote(tt.err))
			assert.Equal(t, tt.protocol, IsProtocol(tt.err))
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.fetch, IsFetchFailure(tt.err))
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NewRemote(0, io.ErrUnexpectedEOF, "network error")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
