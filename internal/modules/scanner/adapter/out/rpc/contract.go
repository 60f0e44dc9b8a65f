package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "scanner"
	serviceName       = "skytools.scanner.v1.Scanner"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodScan        = "/" + serviceName + "/Scan"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SKYTOOLS_SCANNER",
	MagicCookieValue: "skytools",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
	Formats      []string `json:"formats"`
}

type ScanRequest struct {
	Filename string `json:"filename"`
	Image    []byte `json:"image"`
}

type ScanResponse struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

type ScannerServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Scan(ctx context.Context, in *ScanRequest) (*ScanResponse, error)
}

type ScannerClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Scan(ctx context.Context, in *ScanRequest) (*ScanResponse, error)
}

type scannerClient struct {
	conn *grpc.ClientConn
}

func NewScannerClient(conn *grpc.ClientConn) ScannerClient {
	return &scannerClient{conn: conn}
}

func (c *scannerClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scannerClient) Scan(ctx context.Context, in *ScanRequest) (*ScanResponse, error) {
	out := &ScanResponse{}
	if err := c.conn.Invoke(ctx, methodScan, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterScannerServer(server grpc.ServiceRegistrar, impl ScannerServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*ScannerServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Scan",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ScanRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Scan(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodScan}
					handler := func(ctx context.Context, req any) (any, error) {
						scanReq, ok := req.(*ScanRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Scan(ctx, scanReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "skytools/scanner/v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl ScannerServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterScannerServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewScannerClient(conn), nil
}

func PluginMap(impl ScannerServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
