package metric

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	sizeBytesWeight = 0.7
	sizeLinesWeight = 0.3

	kb = 1024
	mb = 1024 * kb
	gb = 1024 * mb
)

// deviceProfile holds the saturation knees for one deployment target.
type deviceProfile struct {
	bytesKnee, bytesMax float64
	linesKnee, linesMax float64
}

var deviceProfiles = map[string]deviceProfile{
	score.DeviceRaspberryPi: {50 * mb, 500 * mb, 20_000, 200_000},
	score.DeviceJetsonNano:  {500 * mb, 4 * gb, 100_000, 1_000_000},
	score.DeviceDesktopPC:   {4 * gb, 32 * gb, 1_000_000, 10_000_000},
	score.DeviceAWSServer:   {32 * gb, 512 * gb, 10_000_000, 100_000_000},
}

// Size scores how comfortably the artifact fits each device class.
type Size struct{}

func (Size) Name() string { return score.Size }

func (Size) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		if t.Remote != nil {
			return DeviceMap(deviceScores(float64(t.Remote.SizeKB)*kb, 0)), nil
		}
		m := make(map[string]float64, len(deviceProfiles))
		for _, d := range score.Devices() {
			m[d] = fallback(t, score.Size+":"+d).Scalar
		}
		return DeviceMap(m), nil
	}

	files, err := t.Files()
	if err != nil {
		return Value{}, err
	}

	var total, lines int64
	for _, f := range files {
		n, l, err := measureFile(t.Path(f), t.Limits.MaxReadBytes)
		if err != nil {
			return Value{}, err
		}
		total += n
		lines += l
	}

	return DeviceMap(deviceScores(float64(total), float64(lines))), nil
}

func deviceScores(size, lines float64) map[string]float64 {
	m := make(map[string]float64, len(deviceProfiles))
	for d, p := range deviceProfiles {
		m[d] = sizeBytesWeight*(1-score.SaturatingScale(size, p.bytesKnee, p.bytesMax)) +
			sizeLinesWeight*(1-score.SaturatingScale(lines, p.linesKnee, p.linesMax))
	}
	return m
}

// measureFile returns the file size and the newline count over its first
// limit bytes. Files removed since listing are skipped.
func measureFile(p string, limit int64) (int64, int64, error) {
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("opening %s: %w", p, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("stat %s: %w", p, err)
	}

	r := io.Reader(f)
	if limit > 0 {
		r = io.LimitReader(f, limit)
	}
	var lines int64
	buf := make([]byte, 32*kb)
	for {
		n, err := r.Read(buf)
		lines += int64(bytes.Count(buf[:n], []byte{'\n'}))
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("reading %s: %w", p, err)
		}
	}
	return info.Size(), lines, nil
}
