// Package semanticrpc is an out-of-process semantic.Model bridge: it lets
// a host toolchain that lives in another process (or another language
// runtime) answer the engine's semantic queries over gRPC, without either
// side needing a protoc-generated stub. A .proto schema is parsed at
// runtime with jhump/protoreflect's protoparse, and requests/responses are
// sent and received as jhump/protoreflect/dynamic.Message values over a
// plain google.golang.org/grpc connection.
//
// Since internal/semantic.Symbol, Syntax, and Type are opaque handles
// that only need to be stable map keys and round-trip through the host,
// this bridge represents all three as server-assigned string handles:
// the remote host is the only process that ever dereferences them.
package semanticrpc

import (
	"fmt"
	"io"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// schemaProto is the wire schema for the semantic bridge, embedded as
// text so no protoc invocation or generated package is ever needed.
const schemaProto = `
syntax = "proto3";
package nullinfer.semanticrpc;

message Handle {
  string id = 1;
}

message Position {
  string file = 1;
  int32 line = 2;
  int32 column = 3;
}

message SymbolForRequest {
  Handle syntax = 1;
}
message SymbolForResponse {
  Handle symbol = 1;
  bool found = 2;
}

message TypeForRequest {
  Handle syntax = 1;
}
message TypeForResponse {
  Handle type = 1;
  bool found = 2;
}

message TypePredicateRequest {
  Handle type = 1;
}
message TypePredicateResponse {
  bool value = 1;
}

message FlowStateRequest {
  Handle syntax = 1;
}
message FlowStateResponse {
  int32 state = 1;
}

message PositionOfRequest {
  Handle syntax = 1;
}

service SemanticService {
  rpc SymbolFor(SymbolForRequest) returns (SymbolForResponse);
  rpc TypeFor(TypeForRequest) returns (TypeForResponse);
  rpc IsReferenceType(TypePredicateRequest) returns (TypePredicateResponse);
  rpc CanBeMadeNullable(TypePredicateRequest) returns (TypePredicateResponse);
  rpc FlowStateBefore(FlowStateRequest) returns (FlowStateResponse);
  rpc PositionOf(PositionOfRequest) returns (Position);
}
`

const schemaFileName = "semanticrpc.proto"

// loadSchema parses schemaProto in-memory (no files touch disk) and
// returns its file descriptor, using a protoparse.Parser.Accessor that
// serves the embedded string instead of reading a path on disk.
func loadSchema() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: func(filename string) (io.ReadCloser, error) {
			if filename != schemaFileName {
				return nil, fmt.Errorf("semanticrpc: unknown schema file %q", filename)
			}
			return io.NopCloser(strings.NewReader(schemaProto)), nil
		},
	}
	fds, err := parser.ParseFiles(schemaFileName)
	if err != nil {
		return nil, fmt.Errorf("semanticrpc: parsing embedded schema: %w", err)
	}
	return fds[0], nil
}

// service returns the schema's single SemanticService descriptor.
func service(fd *desc.FileDescriptor) (*desc.ServiceDescriptor, error) {
	sd := fd.FindService("nullinfer.semanticrpc.SemanticService")
	if sd == nil {
		return nil, fmt.Errorf("semanticrpc: schema missing SemanticService")
	}
	return sd, nil
}
