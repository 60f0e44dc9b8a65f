package out

import (
	"context"

	measureout "skytools/internal/modules/measure/port/out"
	scannerdto "skytools/internal/modules/scanner/dto"
	scannerin "skytools/internal/modules/scanner/port/in"
)

// ScannerBridge adapts the scanner module to the measure Scanner port.
type ScannerBridge struct {
	scanner scannerin.Usecase
}

func NewScannerBridge(scanner scannerin.Usecase) measureout.Scanner {
	return &ScannerBridge{scanner: scanner}
}

func (b *ScannerBridge) Scan(ctx context.Context, imagePath string) (string, error) {
	out, err := b.scanner.Scan(ctx, scannerdto.ScanInput{ImagePath: imagePath})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}
