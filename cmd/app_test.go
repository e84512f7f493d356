package cmd

import "testing"

func TestCommandNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Commands {
		if c.Name() == "" {
			t.Errorf("%T has an empty name", c)
		}
		if seen[c.Name()] {
			t.Errorf("duplicate command name %q", c.Name())
		}
		seen[c.Name()] = true

		if c.Synopsis() == "" {
			t.Errorf("command %q has no synopsis", c.Name())
		}
		if c.Usage() == "" {
			t.Errorf("command %q has no usage", c.Name())
		}
	}
}
