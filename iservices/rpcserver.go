package iservices

var RpcServerName = "rpc"

type IRPCServer interface {
	// Endpoint returns the address the API server listens on.
	Endpoint() string
}
