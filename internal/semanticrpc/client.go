package semanticrpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/nullaware/nullinfer/internal/semantic"
)

// Client is a semantic.Model backed by a remote SemanticService, reached
// over an already-established grpc.ClientConn (dialed with grpc.NewClient
// plus the caller's own transport credentials choice).
type Client struct {
	conn *grpc.ClientConn
	svc  *desc.ServiceDescriptor

	methodFor map[string]*desc.MethodDescriptor
}

// NewClient wraps conn as a semantic.Model, parsing the embedded schema
// once per Client.
func NewClient(conn *grpc.ClientConn) (*Client, error) {
	fd, err := loadSchema()
	if err != nil {
		return nil, err
	}
	sd, err := service(fd)
	if err != nil {
		return nil, err
	}

	methods := make(map[string]*desc.MethodDescriptor, len(sd.GetMethods()))
	for _, m := range sd.GetMethods() {
		methods[m.GetName()] = m
	}

	return &Client{conn: conn, svc: sd, methodFor: methods}, nil
}

// invoke calls method with req already populated, decoding the response
// into a fresh dynamic.Message of the method's output type.
func (c *Client) invoke(ctx context.Context, methodName string, req *dynamic.Message) (*dynamic.Message, error) {
	md, ok := c.methodFor[methodName]
	if !ok {
		return nil, fmt.Errorf("semanticrpc: unknown method %q", methodName)
	}
	resp := dynamic.NewMessage(md.GetOutputType())
	fullMethod := "/" + c.svc.GetFullyQualifiedName() + "/" + methodName
	if err := c.conn.Invoke(ctx, fullMethod, req, resp); err != nil {
		return nil, fmt.Errorf("semanticrpc: %s: %w", methodName, err)
	}
	return resp, nil
}

func handleMessage(md *desc.MethodDescriptor, field string, id string) *dynamic.Message {
	msg := dynamic.NewMessage(md.GetInputType())
	handleDesc := md.GetInputType().FindFieldByName(field).GetMessageType()
	handle := dynamic.NewMessage(handleDesc)
	handle.SetFieldByName("id", id)
	msg.SetFieldByName(field, handle)
	return msg
}

func syntaxID(s semantic.Syntax) string {
	id, _ := s.(string)
	return id
}

// SymbolFor implements semantic.Model by round-tripping syntax's handle
// through SymbolFor; the returned Symbol is itself just a handle string,
// opaque to everything except the remote host.
func (c *Client) SymbolFor(s semantic.Syntax) (semantic.Symbol, bool) {
	md := c.methodFor["SymbolFor"]
	req := handleMessage(md, "syntax", syntaxID(s))
	resp, err := c.invoke(context.Background(), "SymbolFor", req)
	if err != nil {
		return nil, false
	}
	found, _ := resp.GetFieldByName("found").(bool)
	if !found {
		return nil, false
	}
	handle, _ := resp.GetFieldByName("symbol").(*dynamic.Message)
	if handle == nil {
		return nil, false
	}
	id, _ := handle.GetFieldByName("id").(string)
	return id, true
}

// TypeFor implements semantic.Model.
func (c *Client) TypeFor(s semantic.Syntax) (semantic.Type, bool) {
	md := c.methodFor["TypeFor"]
	req := handleMessage(md, "syntax", syntaxID(s))
	resp, err := c.invoke(context.Background(), "TypeFor", req)
	if err != nil {
		return nil, false
	}
	found, _ := resp.GetFieldByName("found").(bool)
	if !found {
		return nil, false
	}
	handle, _ := resp.GetFieldByName("type").(*dynamic.Message)
	if handle == nil {
		return nil, false
	}
	id, _ := handle.GetFieldByName("id").(string)
	return id, true
}

func (c *Client) typePredicate(method string, t semantic.Type) bool {
	md := c.methodFor[method]
	id, _ := t.(string)
	req := handleMessage(md, "type", id)
	resp, err := c.invoke(context.Background(), method, req)
	if err != nil {
		return false
	}
	v, _ := resp.GetFieldByName("value").(bool)
	return v
}

// IsReferenceType implements semantic.Model.
func (c *Client) IsReferenceType(t semantic.Type) bool { return c.typePredicate("IsReferenceType", t) }

// CanBeMadeNullable implements semantic.Model.
func (c *Client) CanBeMadeNullable(t semantic.Type) bool {
	return c.typePredicate("CanBeMadeNullable", t)
}

// FlowStateBefore implements semantic.Model.
func (c *Client) FlowStateBefore(s semantic.Syntax) semantic.FlowState {
	md := c.methodFor["FlowStateBefore"]
	req := handleMessage(md, "syntax", syntaxID(s))
	resp, err := c.invoke(context.Background(), "FlowStateBefore", req)
	if err != nil {
		return semantic.FlowUnknown
	}
	state, _ := resp.GetFieldByName("state").(int32)
	return semantic.FlowState(state)
}

// PositionOf implements semantic.Model.
func (c *Client) PositionOf(s semantic.Syntax) semantic.Position {
	md := c.methodFor["PositionOf"]
	req := handleMessage(md, "syntax", syntaxID(s))
	resp, err := c.invoke(context.Background(), "PositionOf", req)
	if err != nil {
		return semantic.Position{}
	}
	file, _ := resp.GetFieldByName("file").(string)
	line, _ := resp.GetFieldByName("line").(int32)
	col, _ := resp.GetFieldByName("column").(int32)
	return semantic.Position{File: file, Line: int(line), Column: int(col)}
}

var _ semantic.Model = (*Client)(nil)
