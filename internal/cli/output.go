package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

var prettyOutput bool

// printJSON writes v to stdout as JSON, indented when --pretty is set.
func printJSON(v any) error {
	var (
		data []byte
		err  error
	)
	if prettyOutput {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
