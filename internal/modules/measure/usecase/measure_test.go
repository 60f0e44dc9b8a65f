package usecase_test

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	extractorusecase "skytools/internal/modules/extractor/usecase"
	heightusecase "skytools/internal/modules/height/usecase"
	measurestore "skytools/internal/modules/measure/adapter/out"
	"skytools/internal/modules/measure/domain"
	"skytools/internal/modules/measure/dto"
	measurein "skytools/internal/modules/measure/port/in"
	measureout "skytools/internal/modules/measure/port/out"
	"skytools/internal/modules/measure/service"
	"skytools/internal/modules/measure/usecase"
	apperrors "skytools/internal/platform/errors"
)

var bodyPayload = base64.StdEncoding.EncodeToString([]byte(`"body":{"height":0.35},"scale":1200000000`))

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "m-" + strconv.Itoa(s.n)
}

type fakeScanner struct {
	text    string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeScanner) Scan(ctx context.Context, _ string) (string, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func newInteractor(t *testing.T, scanner *fakeScanner, statePath string) measurein.Usecase {
	t.Helper()
	var port measureout.Scanner
	if scanner != nil {
		port = scanner
	}
	ctrl := service.NewController(
		fixedClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)},
		&seqID{},
		extractorusecase.NewInteractor(nil),
		port,
		measurestore.NewFileStateStore(statePath),
		nil,
	)
	return usecase.NewInteractor(ctrl, heightusecase.NewInteractor())
}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "measurement.json")
}

func TestSubmitTextDecodesAndPersists(t *testing.T) {
	t.Parallel()
	path := statePath(t)
	uc := newInteractor(t, nil, path)

	out, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: "  " + bodyPayload + "\n"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.State != string(domain.StateDecoded) || !out.HasMeasurement || out.Error != "" {
		t.Fatalf("unexpected state: %+v", out)
	}
	if out.Scale != 1.2 || out.Height != 0.35 || out.ID != "m-1" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if out.Snapshots.Max.Height <= out.Snapshots.Current.Height || out.Snapshots.Min.Height >= out.Snapshots.Current.Height {
		t.Fatalf("expected min < current < max: %+v", out.Snapshots)
	}
	if len(out.Sections) != 4 || out.Sections[0].Metrics[0].ID != "height" || !strings.HasSuffix(out.Sections[0].Metrics[0].Value, " m") {
		t.Fatalf("unexpected sections: %+v", out.Sections)
	}

	shown, err := newInteractor(t, nil, path).Show(context.Background())
	if err != nil {
		t.Fatalf("show from fresh controller: %v", err)
	}
	if !shown.HasMeasurement || shown.Scale != 1.2 || shown.RawInput != bodyPayload {
		t.Fatalf("expected persisted measurement, got %+v", shown)
	}
}

func TestFailedDecodeClearsPayload(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, nil, statePath(t))
	if _, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: bodyPayload}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: "hello world!"})
	if err != nil {
		t.Fatalf("decode failures must not surface as errors: %v", err)
	}
	if out.HasMeasurement || out.State != string(domain.StateIdle) {
		t.Fatalf("expected payload cleared, got %+v", out)
	}
	if out.Error != "could not determine scale/height" {
		t.Fatalf("unexpected error message %q", out.Error)
	}
	if out.RawInput != "hello world!" {
		t.Fatalf("raw input should reflect the failed submission, got %q", out.RawInput)
	}
}

func TestEmptyTextStoresPrompt(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, nil, statePath(t))
	out, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: " \n\t"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Error != domain.EmptyInputMessage || out.HasMeasurement {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestSubmitImageScanFailureIsStored(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeScanner{err: errors.New("could not read QR code from qr.png: no QR code found in image")}, statePath(t))
	out, err := uc.SubmitImage(context.Background(), dto.SubmitImageInput{ImagePath: "/tmp/shots/qr.png"})
	if err != nil {
		t.Fatalf("scan failures must not surface as errors: %v", err)
	}
	if out.HasMeasurement || !strings.Contains(out.Error, "no QR code") || out.FileName != "qr.png" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestSubmitImageWithoutScanner(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, nil, statePath(t))
	out, err := uc.SubmitImage(context.Background(), dto.SubmitImageInput{ImagePath: "qr.png"})
	if err != nil {
		t.Fatalf("submit image: %v", err)
	}
	if out.Error != apperrors.ErrScannerUnavailable.Error() {
		t.Fatalf("unexpected error message %q", out.Error)
	}
}

func TestOverlappingSubmissionIsRejected(t *testing.T) {
	t.Parallel()
	scanner := &fakeScanner{text: bodyPayload, started: make(chan struct{}), release: make(chan struct{})}
	uc := newInteractor(t, scanner, statePath(t))

	type result struct {
		out dto.MeasurementOutput
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := uc.SubmitImage(context.Background(), dto.SubmitImageInput{ImagePath: "qr.png"})
		done <- result{out: out, err: err}
	}()
	<-scanner.started

	busy, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: "abc"})
	if !errors.Is(err, apperrors.ErrDecodeInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}
	if busy.State != string(domain.StateDecoding) || busy.RawInput != "" {
		t.Fatalf("rejected submission must not touch the slot: %+v", busy)
	}
	if _, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: ""}); !errors.Is(err, apperrors.ErrDecodeInFlight) {
		t.Fatalf("expected in-flight rejection for blank input, got %v", err)
	}

	close(scanner.release)
	res := <-done
	if res.err != nil {
		t.Fatalf("scan submission: %v", res.err)
	}
	if !res.out.HasMeasurement || res.out.RawInput != bodyPayload || res.out.Scale != 1.2 {
		t.Fatalf("unexpected scanned measurement: %+v", res.out)
	}
}

func TestResetDuringDecodeWins(t *testing.T) {
	t.Parallel()
	scanner := &fakeScanner{text: bodyPayload, started: make(chan struct{}), release: make(chan struct{})}
	uc := newInteractor(t, scanner, statePath(t))

	done := make(chan dto.MeasurementOutput, 1)
	go func() {
		out, _ := uc.SubmitImage(context.Background(), dto.SubmitImageInput{ImagePath: "qr.png"})
		done <- out
	}()
	<-scanner.started
	if _, err := uc.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	close(scanner.release)
	<-done

	shown, err := uc.Show(context.Background())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown.State != string(domain.StateIdle) || shown.HasMeasurement {
		t.Fatalf("superseded decode must be discarded, got %+v", shown)
	}
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()
	path := statePath(t)
	uc := newInteractor(t, nil, path)
	if _, err := uc.SubmitText(context.Background(), dto.SubmitTextInput{Text: bodyPayload}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	out, err := uc.Reset(context.Background())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if out.State != string(domain.StateIdle) || out.HasMeasurement || out.RawInput != "" || out.Error != "" || out.Scale != 0 || out.Height != 0 {
		t.Fatalf("unexpected reset output: %+v", out)
	}
	if out.Snapshots.Current.Factor != 1 {
		t.Fatalf("expected neutral snapshot after reset, got %+v", out.Snapshots.Current)
	}
	shown, err := newInteractor(t, nil, path).Show(context.Background())
	if err != nil || shown.HasMeasurement {
		t.Fatalf("expected empty slot after reset, got %+v %v", shown, err)
	}
}

func TestEvaluateIsStateless(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, nil, statePath(t))
	report, err := uc.Evaluate(context.Background(), dto.EvaluateInput{Text: "outfit share >> " + bodyPayload})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Scale != 1.2 || report.Height != 0.35 || len(report.Sections) != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, err := uc.Evaluate(context.Background(), dto.EvaluateInput{Text: "hello world!"}); !errors.Is(err, apperrors.ErrUndecodable) {
		t.Fatalf("expected undecodable, got %v", err)
	}
	if _, err := uc.Evaluate(context.Background(), dto.EvaluateInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.Evaluate(context.Background(), dto.EvaluateInput{ImagePath: "qr.png"}); !errors.Is(err, apperrors.ErrScannerUnavailable) {
		t.Fatalf("expected scanner unavailable, got %v", err)
	}
	shown, err := uc.Show(context.Background())
	if err != nil || shown.HasMeasurement {
		t.Fatalf("evaluate must not touch the slot: %+v %v", shown, err)
	}
}
