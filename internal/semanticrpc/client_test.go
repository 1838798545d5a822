package semanticrpc

import (
	"testing"

	"github.com/jhump/protoreflect/dynamic"
)

func TestNewClientBuildsMethodTableWithoutDialing(t *testing.T) {
	c, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient returned an error: %v", err)
	}
	for _, name := range []string{
		"SymbolFor", "TypeFor", "IsReferenceType",
		"CanBeMadeNullable", "FlowStateBefore", "PositionOf",
	} {
		if _, ok := c.methodFor[name]; !ok {
			t.Fatalf("methodFor is missing %q", name)
		}
	}
}

func TestHandleMessageSetsHandleID(t *testing.T) {
	c, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient returned an error: %v", err)
	}
	md := c.methodFor["SymbolFor"]
	msg := handleMessage(md, "syntax", "node-42")

	handle, ok := msg.GetFieldByName("syntax").(*dynamic.Message)
	if !ok {
		t.Fatalf("syntax field is not a *dynamic.Message")
	}
	if got := handle.GetFieldByName("id"); got != "node-42" {
		t.Fatalf("handle id = %v, want node-42", got)
	}
}
