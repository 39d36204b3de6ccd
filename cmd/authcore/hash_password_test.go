package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/authcore/pkg/password"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "argument", args: []string{"hash-password", "--cost", "4", "doc-pass"}},
		{name: "stdin", args: []string{"hash-password", "--cost", "4"}, stdin: "doc-pass\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			root := newRootCmd()
			root.SetArgs(tt.args)
			root.SetIn(strings.NewReader(tt.stdin))
			root.SetOut(&out)
			require.NoError(t, root.Execute())

			hash := strings.TrimSpace(out.String())
			assert.True(t, password.NewHasher().Verify("doc-pass", hash))
			cost, err := password.Cost(hash)
			require.NoError(t, err)
			assert.Equal(t, 4, cost)
		})
	}

	t.Run("empty stdin", func(t *testing.T) {
		t.Parallel()
		root := newRootCmd()
		root.SetArgs([]string{"hash-password"})
		root.SetIn(strings.NewReader(""))
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		assert.Error(t, root.Execute())
	})
}
