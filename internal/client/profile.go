package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/chronologos/pxflood/internal/encoder"
	"github.com/chronologos/pxflood/internal/transport"
	"github.com/chronologos/pxflood/internal/version"
)

// runProfile accumulates what the run loop wrote. A nil *runProfile ignores add.
type runProfile struct {
	start        time.Time
	frames       int
	wireBytes    uint64
	logicalBytes uint64
	writeTime    time.Duration
}

func newRunProfile(start time.Time) *runProfile {
	return &runProfile{start: start}
}

func (p *runProfile) add(f encoder.Frame, write time.Duration) {
	if p == nil {
		return
	}
	p.frames++
	p.wireBytes += uint64(len(f.Data))
	p.logicalBytes += uint64(f.Logical)
	p.writeTime += write
}

func (p *runProfile) ratio() float64 {
	if p.wireBytes == 0 {
		return 0
	}
	return float64(p.logicalBytes) / float64(p.wireBytes)
}

// reportProfile emits a summary to stderr and writes JSON to the profile dir.
func (c *Client) reportProfile(p *runProfile) {
	duration := c.now().Sub(p.start)
	fmt.Fprintf(c.stderr, "[profile] === Run Profile ===\n")
	fmt.Fprintf(c.stderr, "[profile] Canvas: %s encoding=%s compression=%s\n",
		c.session.Dimensions, c.session.Encoding, c.session.Compression)
	fmt.Fprintf(c.stderr, "[profile] Duration: %s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(c.stderr, "[profile] Frames: %d sent=%s logical=%s ratio=%.2f write=%s\n",
		p.frames,
		formatBytes(p.wireBytes),
		formatBytes(p.logicalBytes),
		p.ratio(),
		formatDuration(p.writeTime),
	)

	var stats *quic.ConnectionStats
	if pc, ok := c.conn.(transport.ProfileableConn); ok {
		s := pc.ConnectionStats()
		stats = &s
		fmt.Fprintf(c.stderr, "[profile] RTT: min=%s smooth=%s latest=%s jitter=%s lost=%d/%dpkts\n",
			formatDuration(s.MinRTT),
			formatDuration(s.SmoothedRTT),
			formatDuration(s.LatestRTT),
			formatDuration(s.MeanDeviation),
			s.PacketsLost,
			s.PacketsSent,
		)
	}

	c.writeProfileJSON(p, duration, stats)
}

// profileJSON is the structured output written to the profile dir.
type profileJSON struct {
	Timestamp string         `json:"timestamp"`
	Commit    string         `json:"commit"`
	Canvas    string         `json:"canvas"`
	Encoding  string         `json:"encoding"`
	DurationS float64        `json:"duration_s"`
	Traffic   profileTraffic `json:"traffic"`
	RTT       *profileRTT    `json:"rtt,omitempty"`
}

type profileTraffic struct {
	Frames       int     `json:"frames"`
	BytesSent    uint64  `json:"bytes_sent"`
	BytesLogical uint64  `json:"bytes_logical"`
	Ratio        float64 `json:"ratio"`
	WriteMs      float64 `json:"write_ms"`
	BytesPerSec  float64 `json:"bytes_per_sec"`
}

type profileRTT struct {
	MinMs    float64 `json:"min_ms"`
	SmoothMs float64 `json:"smooth_ms"`
	LatestMs float64 `json:"latest_ms"`
	JitterMs float64 `json:"jitter_ms"`
	PktsLost uint64  `json:"pkts_lost"`
}

// writeProfileJSON dumps a JSON profile to <dir>/pxflood-profile-<timestamp>.json.
func (c *Client) writeProfileJSON(p *runProfile, duration time.Duration, stats *quic.ConnectionStats) {
	now := c.now()
	out := profileJSON{
		Timestamp: now.UTC().Format(time.RFC3339),
		Commit:    version.Commit,
		Canvas:    c.session.Dimensions.String(),
		Encoding:  c.session.Encoding.String(),
		DurationS: duration.Seconds(),
		Traffic: profileTraffic{
			Frames:       p.frames,
			BytesSent:    p.wireBytes,
			BytesLogical: p.logicalBytes,
			Ratio:        p.ratio(),
			WriteMs:      msFloat(p.writeTime),
		},
	}
	if duration > 0 {
		out.Traffic.BytesPerSec = float64(p.wireBytes) / duration.Seconds()
	}
	if stats != nil {
		out.RTT = &profileRTT{
			MinMs:    msFloat(stats.MinRTT),
			SmoothMs: msFloat(stats.SmoothedRTT),
			LatestMs: msFloat(stats.LatestRTT),
			JitterMs: msFloat(stats.MeanDeviation),
			PktsLost: stats.PacketsLost,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		c.log.Warn("profile: json marshal", "err", err)
		return
	}

	filename := filepath.Join(c.profileDir, fmt.Sprintf("pxflood-profile-%s.json", now.Format("20060102-150405")))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		c.log.Warn("profile: write", "file", filename, "err", err)
		return
	}

	fmt.Fprintf(c.stderr, "[profile] wrote %s\n", filename)
}

// msFloat converts a Duration to milliseconds as float64.
func msFloat(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1fGB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// formatDuration formats a duration as milliseconds with one decimal.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0ms"
	}
	ms := float64(d) / float64(time.Millisecond)
	return fmt.Sprintf("%.1fms", ms)
}
