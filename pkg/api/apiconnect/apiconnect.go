// Package apiconnect holds the Connect clients and handlers for the votejam.v1
// services. Every client and handler uses api.Codec for JSON messages.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/loekvdlooilionx/votejam/pkg/api"
)

var (
	clientCodec  connect.ClientOption  = connect.WithCodec(api.Codec{})
	handlerCodec connect.HandlerOption = connect.WithCodec(api.Codec{})
)
