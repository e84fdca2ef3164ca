package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type myApp struct {
	err        error
	usageError bool
}

func (a myApp) Run() error {
	return a.err
}

func (a myApp) UsageError() bool {
	return a.usageError
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		runError   error
		usageError bool

		wantReturnCode int
	}{
		"Run and exit successfully":        {},
		"Run with an error exits with 1":   {runError: errors.New("could not extract"), wantReturnCode: 1},
		"Usage error exits with 2":         {runError: errors.New("no input file"), usageError: true, wantReturnCode: 2},
		"Usage flag without error exits 0": {usageError: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := myApp{err: tc.runError, usageError: tc.usageError}
			require.Equal(t, tc.wantReturnCode, run(a), "Return expected code")
		})
	}
}
