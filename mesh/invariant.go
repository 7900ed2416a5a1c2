package mesh

import (
	"fmt"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).SprintFunc()

// invariant panics when a caller contract is broken. Violations are programming
// errors, the mesh makes no attempt to recover from them.
func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(red("Assertion failed: " + fmt.Sprintf(format, args...)))
	}
}
