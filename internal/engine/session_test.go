package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, p *Pipeline, id string, statuses ...string) *Session {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		s, ok := p.Get(id)
		require.True(t, ok, "session %s disappeared", id)
		for _, st := range statuses {
			if s.Status == st {
				return s
			}
		}
		select {
		case <-deadline:
			t.Fatalf("session %s stuck in %q", id, s.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func playlistBuilder(t *testing.T) PageBuilder {
	return func(ctx context.Context) (Page, error) {
		return NewSnapshotPage(`<html><body>
			<ytd-playlist-video-renderer>
				<a id="video-title" href="/watch?v=aaaaaaaaaaa">One</a>
			</ytd-playlist-video-renderer>
		</body></html>`, "https://www.youtube.com/playlist?list=PLsess")
	}
}

func TestPipelineTwoPhase(t *testing.T) {
	fastConfig(t, 100)
	p := NewPipeline(nil)

	// Phase one: the ID comes back immediately, before any result exists.
	id := p.Start(context.Background(), "https://www.youtube.com/playlist?list=PLsess", playlistBuilder(t))
	require.NotEmpty(t, id)

	s, ok := p.Get(id)
	require.True(t, ok)
	assert.Contains(t, []string{StatusAccepted, StatusScanning, StatusDone}, s.Status)

	// Phase two: the finished session carries the scan result.
	s = waitForStatus(t, p, id, StatusDone)
	require.NotNil(t, s.Result)
	assert.Equal(t, MsgScanResult, s.Result.Type)
	require.Len(t, s.Result.Videos, 1)
	assert.Equal(t, "One", s.Result.Videos[0].Title)
}

func TestPipelineBuildFailure(t *testing.T) {
	fastConfig(t, 100)
	p := NewPipeline(nil)

	id := p.Start(context.Background(), "", func(ctx context.Context) (Page, error) {
		return nil, errors.New("fetch blew up")
	})

	s := waitForStatus(t, p, id, StatusError)
	require.NotNil(t, s.Result)
	assert.Equal(t, "fetch blew up", s.Result.Error)
	assert.NotNil(t, s.Result.Videos)
	assert.Empty(t, s.Result.Videos)
}

func TestPipelineDedupsInflightSource(t *testing.T) {
	fastConfig(t, 100)
	p := NewPipeline(nil)

	release := make(chan struct{})
	slow := func(ctx context.Context) (Page, error) {
		<-release
		return playlistBuilder(t)(ctx)
	}

	const source = "https://www.youtube.com/playlist?list=PLslow"
	id1 := p.Start(context.Background(), source, slow)
	id2 := p.Start(context.Background(), source, slow)
	assert.Equal(t, id1, id2, "a source with a scan in flight must reuse the session")

	close(release)
	waitForStatus(t, p, id1, StatusDone)

	// Finished scans release the source for a fresh session.
	id3 := p.Start(context.Background(), source, playlistBuilder(t))
	assert.NotEqual(t, id1, id3)
	waitForStatus(t, p, id3, StatusDone)
}

func TestPipelineGetCopies(t *testing.T) {
	fastConfig(t, 100)
	p := NewPipeline(nil)

	id := p.Start(context.Background(), "", playlistBuilder(t))
	s := waitForStatus(t, p, id, StatusDone)

	// Mutating the returned copy must not leak into pipeline state.
	s.Result.Videos[0].Title = "tampered"
	again, ok := p.Get(id)
	require.True(t, ok)
	assert.Equal(t, "One", again.Result.Videos[0].Title)
}

func TestPipelineGetUnknown(t *testing.T) {
	p := NewPipeline(nil)
	_, ok := p.Get("nope")
	assert.False(t, ok)
}
