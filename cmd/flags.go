package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// issueNumbersValue is an int slice flag that accepts spaces around the commas ("5, 7")
type issueNumbersValue struct {
	value   *[]int
	changed bool
}

var _ pflag.SliceValue = (*issueNumbersValue)(nil)

func newIssueNumbersValue(p *[]int) *issueNumbersValue {
	return &issueNumbersValue{value: p}
}

func parseIssueNumbers(val []string) ([]int, error) {
	ret := make([]int, 0, len(val))
	for _, s := range val {
		s = strings.TrimSpace(s)
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid issue number %q", s)
		}
		ret = append(ret, n)
	}
	return ret, nil
}

func (v *issueNumbersValue) Set(s string) error {
	numbers, err := parseIssueNumbers(strings.Split(s, ","))
	if err != nil {
		return err
	}
	// 2回目以降の指定は追記する
	if v.changed {
		*v.value = append(*v.value, numbers...)
	} else {
		*v.value = numbers
	}
	v.changed = true
	return nil
}

func (v *issueNumbersValue) Type() string {
	return "intSlice"
}

func (v *issueNumbersValue) String() string {
	return "[" + strings.Join(v.GetSlice(), ",") + "]"
}

func (v *issueNumbersValue) Append(s string) error {
	numbers, err := parseIssueNumbers([]string{s})
	if err != nil {
		return err
	}
	*v.value = append(*v.value, numbers...)
	return nil
}

func (v *issueNumbersValue) Replace(val []string) error {
	numbers, err := parseIssueNumbers(val)
	if err != nil {
		return err
	}
	*v.value = numbers
	return nil
}

func (v *issueNumbersValue) GetSlice() []string {
	ret := make([]string, 0, len(*v.value))
	for _, n := range *v.value {
		ret = append(ret, strconv.Itoa(n))
	}
	return ret
}
