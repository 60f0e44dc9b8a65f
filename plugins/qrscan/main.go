package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skytools/internal/modules/scanner/adapter/out/rpc"
)

const maxMessageBytes = 32 << 20

var formats = []string{"png", "jpeg", "gif", "bmp", "webp"}

type server struct {
	logger hclog.Logger
}

func (s *server) GetMetadata(_ context.Context, _ *rpc.Empty) (*rpc.Metadata, error) {
	return &rpc.Metadata{
		Name:         "qrscan",
		Version:      "1.0.0",
		Capabilities: []string{"scan"},
		Formats:      formats,
	}, nil
}

func (s *server) Scan(ctx context.Context, in *rpc.ScanRequest) (*rpc.ScanResponse, error) {
	if len(in.Image) == 0 {
		return nil, status.Error(codes.InvalidArgument, "image is empty")
	}
	img, format, err := image.Decode(bytes.NewReader(in.Image))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode %s: %v", in.Filename, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	text, err := decodeQR(img)
	if err != nil {
		var notFound gozxing.NotFoundException
		if errors.As(err, &notFound) {
			s.logger.Debug("no qr code", "file", in.Filename, "format", format)
			return nil, status.Error(codes.NotFound, "no QR code found")
		}
		return nil, status.Errorf(codes.Internal, "read qr: %v", err)
	}
	s.logger.Debug("scanned", "file", in.Filename, "format", format, "length", len(text))
	return &rpc.ScanResponse{Text: text, Format: "QR_CODE"}, nil
}

// decodeQR retries with TRY_HARDER, which helps on phone screenshots where
// the code covers a small part of the frame.
func decodeQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	reader := qrcode.NewQRCodeReader()
	result, err := reader.Decode(bmp, nil)
	if err == nil {
		return result.GetText(), nil
	}
	hints := map[gozxing.DecodeHintType]interface{}{gozxing.DecodeHintType_TRY_HARDER: true}
	result, err = reader.Decode(bmp, hints)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "qrscan", Level: hclog.Debug, JSONFormat: true})
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{logger: logger}),
		GRPCServer: func(opts []grpc.ServerOption) *grpc.Server {
			opts = append(opts, grpc.MaxRecvMsgSize(maxMessageBytes))
			return grpc.NewServer(opts...)
		},
		Logger: logger,
	})
}
