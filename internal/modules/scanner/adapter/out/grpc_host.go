package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skytools/internal/modules/scanner/adapter/out/rpc"
	"skytools/internal/modules/scanner/domain"
	scannerout "skytools/internal/modules/scanner/port/out"
	"skytools/internal/platform/logging"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second
)

type GRPCHost struct {
	logger       hclog.Logger
	startTimeout time.Duration
	callTimeout  time.Duration
}

// NewGRPCHost returns a host that starts one plugin process per call. Plugin
// stderr is forwarded to logger.
func NewGRPCHost(logger hclog.Logger) scannerout.Host {
	return &GRPCHost{
		logger:       logging.OrNull(logger).Named("plugin"),
		startTimeout: defaultStartTimeout,
		callTimeout:  defaultCallTimeout,
	}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities, Formats: meta.Formats}, nil
}

func (h *GRPCHost) Scan(ctx context.Context, manifest domain.Manifest, request domain.ScanRequest) (domain.ScanResult, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.ScanResult{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.Scan(callCtx, &rpc.ScanRequest{Filename: request.Filename, Image: request.Image})
	if err != nil {
		return domain.ScanResult{}, translateError(callCtx, manifest, err)
	}
	return domain.ScanResult{Text: response.Text, Format: response.Format}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (rpc.ScannerClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     h.startTimeout,
		Logger:           h.logger.With("scanner", manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start scanner plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense scanner plugin: %w", err)
	}
	typed, ok := raw.(rpc.ScannerClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("scanner rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.callTimeout)
}

func translateError(callCtx context.Context, manifest domain.Manifest, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrScannerTimeout, manifest.Name)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("scan: %w", err)
	}
	switch st.Code() {
	case codes.NotFound:
		return domain.ErrNoQRCode
	case codes.InvalidArgument:
		return fmt.Errorf("scanner rejected image: %s", st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", domain.ErrScannerTimeout, manifest.Name)
	default:
		return fmt.Errorf("scan: %s", st.Message())
	}
}
