// Package memberorder classifies type members into the ordering taxonomy,
// checks declaration order and computes the canonical order.
package memberorder

import "fmt"

// Category is the ordinal bucket of a member. Lower categories must be
// declared first.
type Category int8

const (
	Excluded Category = iota - 1
	NestedEnum
	SerializedField
	PublicProperty
	Constant
	PrivateField
	Constructor
	PublicMethodOneLine
	PublicMethodMultiLine
	PrivateMethod
	LifecycleHook
	Cleanup
)

const categoryCount = int(Cleanup) + 1

var categoryLabels = [categoryCount]string{
	NestedEnum:            "Enum",
	SerializedField:       "SerializeField",
	PublicProperty:        "public properties",
	Constant:              "constants",
	PrivateField:          "private fields",
	Constructor:           "constructors",
	PublicMethodOneLine:   "public methods (one line)",
	PublicMethodMultiLine: "public methods (multi line)",
	PrivateMethod:         "private methods",
	LifecycleHook:         "Unity events",
	Cleanup:               "cleanup",
}

// Label is the display name used in diagnostics.
func (c Category) Label() string {
	if !c.Governed() {
		return "excluded"
	}
	return categoryLabels[c]
}

// Governed reports whether c takes part in ordering.
func (c Category) Governed() bool {
	return c >= NestedEnum && c <= Cleanup
}

func (c Category) String() string {
	if c == Excluded {
		return "Excluded"
	}
	if !c.Governed() {
		return fmt.Sprintf("Category(%d)", int8(c))
	}
	return categoryLabels[c]
}

// Categories lists the governed categories in required order.
func Categories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := NestedEnum; c <= Cleanup; c++ {
		out = append(out, c)
	}
	return out
}
