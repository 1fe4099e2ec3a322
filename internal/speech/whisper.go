package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/rehearse/internal/interview"
)

// Transcriber turns a WAV clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// WhisperConfig configures microphone capture.
type WhisperConfig struct {
	// RecorderCommand writes raw 16-bit little-endian PCM to stdout until
	// killed, e.g. arecord or sox.
	RecorderCommand []string
	SampleRate      int
	Channels        int

	// Interval between live transcriptions of the audio recorded so far.
	Interval time.Duration

	// ProbeWindow is how long the recorder must keep running during the
	// permission check.
	ProbeWindow time.Duration

	// MinAudio skips transcription of clips shorter than this.
	MinAudio time.Duration

	// FinalTimeout bounds the transcription run when the recording stops.
	FinalTimeout time.Duration
}

// DefaultRecorderCommand records 16 kHz mono PCM with ALSA.
var DefaultRecorderCommand = []string{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}

// DefaultWhisperConfig returns the standard capture settings.
func DefaultWhisperConfig() WhisperConfig {
	return WhisperConfig{
		RecorderCommand: DefaultRecorderCommand,
		SampleRate:      16000,
		Channels:        1,
		Interval:        4 * time.Second,
		ProbeWindow:     300 * time.Millisecond,
		MinAudio:        500 * time.Millisecond,
		FinalTimeout:    30 * time.Second,
	}
}

// Whisper records from an external recorder command and transcribes the
// growing clip periodically. Each transcription replaces the snapshot.
type Whisper struct {
	cfg WhisperConfig
	tr  Transcriber
	log *zap.Logger
}

var _ interview.Capture = (*Whisper)(nil)

// NewWhisper creates a microphone capture. Zero config fields take their
// defaults.
func NewWhisper(tr Transcriber, cfg WhisperConfig, log *zap.Logger) *Whisper {
	def := DefaultWhisperConfig()
	if len(cfg.RecorderCommand) == 0 {
		cfg.RecorderCommand = def.RecorderCommand
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = def.Channels
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.ProbeWindow <= 0 {
		cfg.ProbeWindow = def.ProbeWindow
	}
	if cfg.MinAudio <= 0 {
		cfg.MinAudio = def.MinAudio
	}
	if cfg.FinalTimeout <= 0 {
		cfg.FinalTimeout = def.FinalTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Whisper{cfg: cfg, tr: tr, log: log}
}

// RequestPermission checks that a transcriber is configured and that the
// recorder exists and keeps running for the probe window. A recorder that
// exits early (no device, access refused) means permission is denied.
func (w *Whisper) RequestPermission(ctx context.Context) error {
	if w.tr == nil {
		return fmt.Errorf("no transcription backend configured: %w", interview.ErrCaptureUnavailable)
	}
	name := w.cfg.RecorderCommand[0]
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("recorder %q not found: %w", name, interview.ErrCaptureUnavailable)
	}

	probeCtx, cancel := context.WithTimeout(ctx, w.cfg.ProbeWindow)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(probeCtx, name, w.cfg.RecorderCommand[1:]...)
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start recorder: %v: %w", err, interview.ErrPermissionDenied)
	}
	err := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
		return nil
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" && err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "recorder exited immediately"
	}
	return fmt.Errorf("%s: %w", msg, interview.ErrPermissionDenied)
}

// Start launches the recorder. The recording outlives ctx and runs until
// Stop.
func (w *Whisper) Start(ctx context.Context, sink func(string)) (interview.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pcm := &pcmBuffer{}
	cmd := exec.Command(w.cfg.RecorderCommand[0], w.cfg.RecorderCommand[1:]...)
	cmd.Stdout = pcm
	cmd.WaitDelay = 2 * time.Second
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start recorder: %v: %w", err, interview.ErrCaptureUnavailable)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)
	rec := &whisperRecording{w: w, cmd: cmd, pcm: pcm, sink: sink, cancel: cancel, g: g}

	g.Go(func() error {
		err := cmd.Wait()
		if rec.stopped.Load() {
			return nil
		}
		if err == nil {
			err = errors.New("recorder exited")
		}
		w.log.Warn("recorder stopped unexpectedly", zap.Error(err))
		return fmt.Errorf("recorder: %w", err)
	})
	g.Go(func() error {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := rec.transcribe(gctx); err != nil && gctx.Err() == nil {
					w.log.Warn("live transcription failed", zap.Error(err))
				}
			}
		}
	})

	w.log.Debug("recording started", zap.Strings("command", w.cfg.RecorderCommand))
	return rec, nil
}

type whisperRecording struct {
	w      *Whisper
	cmd    *exec.Cmd
	pcm    *pcmBuffer
	sink   func(string)
	cancel context.CancelFunc
	g      *errgroup.Group

	stopped atomic.Bool
	once    sync.Once
	err     error

	// tmu serializes transcriptions so snapshots arrive in recording order.
	tmu sync.Mutex
}

func (r *whisperRecording) transcribe(ctx context.Context) error {
	r.tmu.Lock()
	defer r.tmu.Unlock()

	audio := r.pcm.Bytes()
	cfg := r.w.cfg
	if time.Duration(pcmDuration(len(audio), cfg.SampleRate, cfg.Channels))*time.Millisecond < cfg.MinAudio {
		return nil
	}
	text, err := r.w.tr.Transcribe(ctx, encodeWAV(audio, cfg.SampleRate, cfg.Channels))
	if err != nil {
		return err
	}
	if text = strings.TrimSpace(text); text != "" {
		r.sink(text)
	}
	return nil
}

// Stop kills the recorder, waits for both goroutines and runs a final
// transcription over the whole clip.
func (r *whisperRecording) Stop() error {
	r.once.Do(func() {
		r.stopped.Store(true)
		if r.cmd.Process != nil {
			_ = r.cmd.Process.Kill()
		}
		r.cancel()
		if err := r.g.Wait(); err != nil {
			r.w.log.Warn("recording ended with error", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.w.cfg.FinalTimeout)
		defer cancel()
		if err := r.transcribe(ctx); err != nil {
			r.err = fmt.Errorf("final transcription: %w", err)
		}
		r.w.log.Debug("recording stopped", zap.Int("pcm_bytes", r.pcm.Len()))
	})
	return r.err
}

// pcmBuffer collects recorder output.
type pcmBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *pcmBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Bytes returns a copy of everything written so far.
func (b *pcmBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}

func (b *pcmBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}
