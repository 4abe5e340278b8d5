package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueNumbersValue(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int
		wantErr bool
	}{
		{name: "unset", args: nil, want: nil},
		{name: "comma separated", args: []string{"--numbers", "5,7"}, want: []int{5, 7}},
		{name: "spaces around commas", args: []string{"--numbers", "5, 7 ,9"}, want: []int{5, 7, 9}},
		{name: "repeated flag appends", args: []string{"-n", "5", "-n", "7"}, want: []int{5, 7}},
		{name: "not a number", args: []string{"--numbers", "5,x"}, wantErr: true},
		{name: "empty entry", args: []string{"--numbers", "5,,7"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var numbers []int
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.VarP(newIssueNumbersValue(&numbers), "numbers", "n", "")

			err := fs.Parse(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, numbers)
		})
	}
}
