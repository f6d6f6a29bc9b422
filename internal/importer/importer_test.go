package importer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/simonhull/aup/internal/types"
)

// chdir changes the working directory for the remainder of the test,
// restoring the original directory during cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// stubHost is a minimal in-memory Host for tests.
type stubHost struct {
	tracks []types.Track
	dirty  bool

	rate  float64
	snap  bool
	vpos  int
	calls []string // view setter invocation order
}

func (h *stubHost) AddTrack(t types.Track) { h.tracks = append(h.tracks, t) }

func (h *stubHost) HasTimeTrack() bool {
	for _, t := range h.tracks {
		if _, isTime := t.(*types.TimeTrack); isTime {
			return true
		}
	}
	return false
}

func (h *stubHost) IsEmpty() bool { return len(h.tracks) == 0 }

func (h *stubHost) NewWaveTrack() *types.WaveTrack { return &types.WaveTrack{Rate: 44100} }

func (h *stubHost) IsDirty() bool { return h.dirty }

func (h *stubHost) SetRate(rate float64) { h.rate = rate; h.calls = append(h.calls, "rate") }

func (h *stubHost) SetSnapTo(on bool) { h.snap = on; h.calls = append(h.calls, "snapto") }
func (h *stubHost) SetSelectionFormat(string) {
	h.calls = append(h.calls, "selectionformat")
}
func (h *stubHost) SetAudioTimeFormat(string) {
	h.calls = append(h.calls, "audiotimeformat")
}
func (h *stubHost) SetFrequencyFormat(string) {
	h.calls = append(h.calls, "frequencyformat")
}
func (h *stubHost) SetBandwidthFormat(string) {
	h.calls = append(h.calls, "bandwidthformat")
}
func (h *stubHost) SetVPos(pos int) { h.vpos = pos; h.calls = append(h.calls, "vpos") }

func (h *stubHost) SetScroll(float64) { h.calls = append(h.calls, "h") }

func (h *stubHost) SetZoom(float64) { h.calls = append(h.calls, "zoom") }

func (h *stubHost) SetSel0(float64) { h.calls = append(h.calls, "sel0") }

func (h *stubHost) SetSel1(float64) { h.calls = append(h.calls, "sel1") }

type tagMap map[string]string

func (m tagMap) SetTag(name, value string) { m[name] = value }

// writeProject writes a .aup document plus its data directory and returns
// the project file path. body goes inside the root element; files are
// created under the data directory by bare name.
func writeProject(t *testing.T, attrs, body string, files map[string][]byte) string {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "proj_data")
	if err := os.Mkdir(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	doc := fmt.Sprintf(`<?xml version="1.0" standalone="no" ?>
<project version="1.3.0" audacityversion="2.4.2" projname="proj_data" %s>
%s
</project>
`, attrs, body)

	path := filepath.Join(dir, "proj.aup")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// auBlock builds a big-endian mono 16-bit AU block file.
func auBlock(samples []int16) []byte {
	buf := make([]byte, 24+len(samples)*2)
	copy(buf, ".snd")
	binary.BigEndian.PutUint32(buf[4:], 24)
	binary.BigEndian.PutUint32(buf[8:], uint32(len(samples)*2))
	binary.BigEndian.PutUint32(buf[12:], 3) // 16-bit linear PCM
	binary.BigEndian.PutUint32(buf[16:], 44100)
	binary.BigEndian.PutUint32(buf[20:], 1)
	for i, s := range samples {
		binary.BigEndian.PutUint16(buf[24+i*2:], uint16(s))
	}
	return buf
}

// writeWAV writes a 16-bit WAV alias file holding interleaved samples.
func writeWAV(t *testing.T, path string, channels int, samples []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := wav.NewEncoder(f, 44100, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 44100},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close WAV encoder: %v", err)
	}
	f.Close()
}

func runImport(t *testing.T, path string, host *stubHost, onProgress types.ProgressFunc, opts Options) (*Result, error) {
	t.Helper()
	return Run(context.Background(), path, host, tagMap{}, onProgress, opts)
}

func TestImportWaveTrackWithBlockFile(t *testing.T) {
	samples := []int16{100, 200, 300, 400}
	path := writeProject(t, "", `
<wavetrack name="vox" channel="0" linked="0" mute="0" solo="0" rate="44100" gain="1.0" pan="0.0">
  <waveclip offset="0.5" colorindex="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="4">
      <waveblock start="0">
        <simpleblockfile filename="e0000001.au" len="4" min="0" max="0" rms="0"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`,
		map[string][]byte{"e0000001.au": auBlock(samples)})

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != types.StatusSuccess {
		t.Fatalf("Status = %v", result.Status)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}

	if len(host.tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(host.tracks))
	}
	track, isWave := host.tracks[0].(*types.WaveTrack)
	if !isWave {
		t.Fatalf("track is %T, want *WaveTrack", host.tracks[0])
	}
	if track.Name != "vox" {
		t.Errorf("Name = %q, want vox", track.Name)
	}
	if len(track.Clips) != 1 {
		t.Fatalf("got %d clips, want 1", len(track.Clips))
	}

	clip := track.Clips[0]
	if clip.Offset != 0.5 {
		t.Errorf("Offset = %g, want 0.5", clip.Offset)
	}
	if clip.Format != types.Int16 || clip.MaxSamples != 262144 || clip.NumSamples != 4 {
		t.Errorf("sequence params = %v/%d/%d", clip.Format, clip.MaxSamples, clip.NumSamples)
	}
	if clip.Len() != 4 {
		t.Fatalf("clip has %d samples, want 4", clip.Len())
	}
	got := clip.Samples()
	for i, s := range samples {
		want := float32(s) / 32768.0
		if got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestImportSilentBlockFile(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="pad" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="4096">
      <waveblock start="0">
        <silentblockfile len="4096"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}

	track := host.tracks[0].(*types.WaveTrack)
	clip := track.Clips[0]
	if clip.Len() != 4096 {
		t.Fatalf("clip has %d samples, want 4096", clip.Len())
	}
	for i, v := range clip.Samples() {
		if v != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
}

func TestImportMissingBlockFileWarnsAndSubstitutesSilence(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="100">
      <waveblock start="0">
        <simpleblockfile filename="gone.au" len="100"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v (missing audio must stay non-fatal)", err)
	}
	if result.Status != types.StatusSuccess {
		t.Fatalf("Status = %v, want Success", result.Status)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(result.Warnings), result.Warnings)
	}
	if result.Message == "" {
		t.Error("Message empty on success with warnings")
	}

	clip := host.tracks[0].(*types.WaveTrack).Clips[0]
	if clip.Len() != 100 {
		t.Fatalf("clip has %d samples, want 100 of silence", clip.Len())
	}
}

func TestImportAliasBlockFile(t *testing.T) {
	// Stereo alias read from frame 2 onward, right channel only.
	aliasPath := filepath.Join(t.TempDir(), "alias.wav")
	writeWAV(t, aliasPath, 2, []int{10, 100, 20, 200, 30, 300, 40, 400, 50, 500})

	body := fmt.Sprintf(`
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="3">
      <waveblock start="0">
        <pcmaliasblockfile aliasfile="%s" aliasstart="2" aliaslen="3" aliaschannel="1"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, aliasPath)
	path := writeProject(t, "", body, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}

	clip := host.tracks[0].(*types.WaveTrack).Clips[0]
	if clip.Len() != 3 {
		t.Fatalf("clip has %d samples, want 3", clip.Len())
	}
	got := clip.Samples()
	for i, s := range []int16{300, 400, 500} {
		if want := float32(s) / 32768.0; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestImportAliasRelativePath(t *testing.T) {
	samples := []int16{11, 22, 33, 44}
	workDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(workDir, "session_audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	au := auBlock(samples)
	if err := os.WriteFile(filepath.Join(workDir, "session_audio", "alias.au"), au, 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, workDir)

	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="4">
      <waveblock start="0">
        <pcmaliasblockfile aliasfile="session_audio/alias.au" aliasstart="0" aliaslen="4" aliaschannel="0"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("Warnings = %v (relative alias path must resolve)", result.Warnings)
	}

	clip := host.tracks[0].(*types.WaveTrack).Clips[0]
	if clip.Len() != 4 {
		t.Fatalf("clip has %d samples, want 4", clip.Len())
	}
	got := clip.Samples()
	for i, s := range samples {
		if want := float32(s) / 32768.0; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestImportAliasFileMovedIntoDataDir(t *testing.T) {
	// Alias referenced by bare name; the file itself was moved into the
	// project data directory.
	samples := []int16{7, 8, 9}
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="3">
      <waveblock start="0">
        <pcmaliasblockfile aliasfile="alias.au" aliasstart="0" aliaslen="3" aliaschannel="0"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`,
		map[string][]byte{"alias.au": auBlock(samples)})

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}

	clip := host.tracks[0].(*types.WaveTrack).Clips[0]
	if clip.Len() != 3 {
		t.Fatalf("clip has %d samples, want 3", clip.Len())
	}
}

func TestImportAliasMissingFileWarnsAndSubstitutesSilence(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="64">
      <waveblock start="0">
        <pcmaliasblockfile aliasfile="/vanished/alias.wav" aliasstart="0" aliaslen="64" aliaschannel="0"/>
      </waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v (missing alias must stay non-fatal)", err)
	}
	if result.Status != types.StatusSuccess {
		t.Fatalf("Status = %v, want Success", result.Status)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Stage != "resolve" {
		t.Fatalf("got warnings %v, want one resolve warning", result.Warnings)
	}

	clip := host.tracks[0].(*types.WaveTrack).Clips[0]
	if clip.Len() != 64 {
		t.Fatalf("clip has %d samples, want 64 of silence", clip.Len())
	}
	for i, v := range clip.Samples() {
		if v != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
}

func TestImportProgressTotalMatchesQueuedLengths(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="300">
      <waveblock start="0"><silentblockfile len="100"/></waveblock>
      <waveblock start="100"><silentblockfile len="80"/></waveblock>
      <waveblock start="180"><silentblockfile len="120"/></waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	var processed []int64
	var total int64
	onProgress := func(done, sum int64) types.Status {
		processed = append(processed, done)
		total = sum
		return types.StatusSuccess
	}

	host := &stubHost{}
	if _, err := runImport(t, path, host, onProgress, Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if total != 300 {
		t.Errorf("progress total = %d, want 300 (sum of queued lengths)", total)
	}
	want := []int64{0, 100, 180}
	if len(processed) != len(want) {
		t.Fatalf("progress called %d times, want %d", len(processed), len(want))
	}
	for i := range want {
		if processed[i] != want[i] {
			t.Errorf("progress call %d = %d, want %d", i, processed[i], want[i])
		}
	}
}

func TestImportCancelledByProgress(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="100">
      <waveblock start="0"><silentblockfile len="100"/></waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	onProgress := func(_, _ int64) types.Status { return types.StatusCancelled }

	host := &stubHost{}
	result, err := runImport(t, path, host, onProgress, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v (cancellation is not an error)", err)
	}
	if result.Status != types.StatusCancelled {
		t.Fatalf("Status = %v, want Cancelled", result.Status)
	}
	if len(host.tracks) != 0 {
		t.Errorf("cancelled import committed %d tracks", len(host.tracks))
	}
}

func TestImportContextCancellation(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="100">
      <waveblock start="0"><silentblockfile len="100"/></waveblock>
    </sequence>
  </waveclip>
</wavetrack>`, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := &stubHost{}
	result, err := Run(ctx, path, host, tagMap{}, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != types.StatusCancelled {
		t.Fatalf("Status = %v, want Cancelled", result.Status)
	}
	if len(host.tracks) != 0 {
		t.Errorf("cancelled import committed %d tracks", len(host.tracks))
	}
}

func TestImportUnknownTagIsFatal(t *testing.T) {
	path := writeProject(t, "", `<wobble/>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err == nil {
		t.Fatal("Run() with unknown tag succeeded")
	}
	if result.Status != types.StatusFailed {
		t.Fatalf("Status = %v, want Failed", result.Status)
	}
	if len(host.tracks) != 0 {
		t.Errorf("failed import committed %d tracks", len(host.tracks))
	}
}

func TestImportFirstErrorWins(t *testing.T) {
	// Two bad sequences; the reported message must come from the first.
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="1023" sampleformat="131073" numsamples="0"/>
  </waveclip>
  <waveclip offset="0">
    <sequence maxsamples="9" sampleformat="131073" numsamples="0"/>
  </waveclip>
</wavetrack>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err == nil {
		t.Fatal("Run() with invalid maxsamples succeeded")
	}

	var attrErr *types.InvalidAttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("error = %v, want *InvalidAttributeError", err)
	}
	if attrErr.Value != "1023" {
		t.Errorf("reported value = %q, want the first bad value 1023", attrErr.Value)
	}
	if result.Message == "" {
		t.Error("Message empty on failure")
	}
}

func TestImportMaxSamplesBoundaries(t *testing.T) {
	for _, tc := range []struct {
		value string
		ok    bool
	}{
		{"1024", true},
		{"67108864", true},
		{"1023", false},
		{"67108865", false},
	} {
		body := fmt.Sprintf(`
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="%s" sampleformat="131073" numsamples="0"/>
  </waveclip>
</wavetrack>`, tc.value)
		path := writeProject(t, "", body, nil)

		_, err := runImport(t, path, &stubHost{}, nil, Options{})
		if tc.ok && err != nil {
			t.Errorf("maxsamples=%s: Run() error = %v, want success", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("maxsamples=%s: Run() succeeded, want hard error", tc.value)
		}
	}
}

func TestImportDuplicateTimeTrackBypassed(t *testing.T) {
	path := writeProject(t, "", `
<timetrack name="first" rangelower="0.9" rangeupper="1.1">
  <envelope numpoints="1">
    <controlpoint t="0.0" val="1.0"/>
  </envelope>
</timetrack>
<timetrack name="second" rangelower="0.5" rangeupper="2.0">
  <envelope numpoints="1">
    <controlpoint t="1.0" val="2.0"/>
  </envelope>
</timetrack>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v (duplicate time track must not be fatal)", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}

	count := 0
	for _, tr := range host.tracks {
		if tt, isTime := tr.(*types.TimeTrack); isTime {
			count++
			if tt.Name != "first" {
				t.Errorf("kept time track %q, want first", tt.Name)
			}
			if len(tt.Envelope().Points) != 1 {
				t.Errorf("kept track has %d points, want 1", len(tt.Envelope().Points))
			}
		}
	}
	if count != 1 {
		t.Errorf("committed %d time tracks, want 1", count)
	}
}

func TestImportTimeTrackBlockedByHost(t *testing.T) {
	path := writeProject(t, "", `
<timetrack name="imported" rangelower="0.9" rangeupper="1.1"/>`, nil)

	host := &stubHost{}
	host.tracks = append(host.tracks, &types.TimeTrack{})
	host.dirty = true

	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}
	if len(host.tracks) != 1 {
		t.Errorf("host has %d tracks, want the pre-existing 1", len(host.tracks))
	}
}

func TestImportNoteTrackBypassedWithoutMIDI(t *testing.T) {
	path := writeProject(t, "", `
<notetrack name="midi" height="100">
  <somethingmidiinternal opaque="yes"/>
</notetrack>
<labeltrack name="notes" numlabels="0" height="73"/>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v (bypassed note track must not be fatal)", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}

	// Only the label track survives; the note track subtree, including
	// tags the dispatcher would otherwise reject, is skipped wholesale.
	if len(host.tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(host.tracks))
	}
	if _, isLabel := host.tracks[0].(*types.LabelTrack); !isLabel {
		t.Errorf("track is %T, want *LabelTrack", host.tracks[0])
	}
}

func TestImportNoteTrackWithMIDI(t *testing.T) {
	path := writeProject(t, "", `
<notetrack name="midi" height="100" bottomnote="24"/>`, nil)

	host := &stubHost{}
	result, err := runImport(t, path, host, nil, Options{MIDI: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}

	track, isNote := host.tracks[0].(*types.NoteTrack)
	if !isNote {
		t.Fatalf("track is %T, want *NoteTrack", host.tracks[0])
	}
	if track.Name != "midi" || track.Attrs["bottomnote"] != "24" {
		t.Errorf("track = %+v", track)
	}
}

func TestImportLabelTrack(t *testing.T) {
	path := writeProject(t, "", `
<labeltrack name="sections" numlabels="2" height="73">
  <label t="0.0" t1="10.5" title="intro"/>
  <label t="10.5" t1="42.0" title="verse &amp; chorus"/>
</labeltrack>`, nil)

	host := &stubHost{}
	if _, err := runImport(t, path, host, nil, Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	track := host.tracks[0].(*types.LabelTrack)
	if track.Name != "sections" || len(track.Labels) != 2 {
		t.Fatalf("track = %+v", track)
	}
	if track.Labels[1].T0 != 10.5 || track.Labels[1].T1 != 42.0 {
		t.Errorf("label bounds = %g..%g", track.Labels[1].T0, track.Labels[1].T1)
	}
	if track.Labels[1].Title != "verse & chorus" {
		t.Errorf("label title = %q", track.Labels[1].Title)
	}
}

func TestImportCutLines(t *testing.T) {
	path := writeProject(t, "", `
<wavetrack name="vox" rate="44100">
  <waveclip offset="0">
    <sequence maxsamples="262144" sampleformat="131073" numsamples="10">
      <waveblock start="0"><silentblockfile len="10"/></waveblock>
    </sequence>
    <waveclip offset="1.5">
      <sequence maxsamples="262144" sampleformat="131073" numsamples="5">
        <waveblock start="0"><silentblockfile len="5"/></waveblock>
      </sequence>
    </waveclip>
  </waveclip>
</wavetrack>`, nil)

	host := &stubHost{}
	if _, err := runImport(t, path, host, nil, Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	track := host.tracks[0].(*types.WaveTrack)
	if len(track.Clips) != 1 {
		t.Fatalf("got %d clips, want 1 (nested clip is a cut line, not a sibling)", len(track.Clips))
	}

	clip := track.Clips[0]
	if clip.Len() != 10 {
		t.Errorf("clip has %d samples, want 10", clip.Len())
	}
	if len(clip.CutLines) != 1 {
		t.Fatalf("got %d cut lines, want 1", len(clip.CutLines))
	}
	cut := clip.CutLines[0]
	if cut.Offset != 1.5 || cut.Len() != 5 {
		t.Errorf("cut line offset=%g len=%d, want 1.5/5", cut.Offset, cut.Len())
	}
}

func TestImportImpliedClipEnvelope(t *testing.T) {
	// Early project versions put the envelope directly under the track.
	path := writeProject(t, "", `
<wavetrack name="old" rate="44100">
  <envelope numpoints="2">
    <controlpoint t="0.0" val="0.5"/>
    <controlpoint t="2.0" val="1.0"/>
  </envelope>
  <sequence maxsamples="262144" sampleformat="131073" numsamples="10">
    <waveblock start="0"><silentblockfile len="10"/></waveblock>
  </sequence>
</wavetrack>`, nil)

	host := &stubHost{}
	if _, err := runImport(t, path, host, nil, Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	track := host.tracks[0].(*types.WaveTrack)
	if len(track.Clips) != 1 {
		t.Fatalf("got %d clips, want the single implied clip", len(track.Clips))
	}
	clip := track.Clips[0]
	if !clip.HasEnvelope() || len(clip.Envelope().Points) != 2 {
		t.Errorf("implied clip envelope missing or wrong: %+v", clip.Envelope())
	}
	if clip.Len() != 10 {
		t.Errorf("implied clip has %d samples, want 10", clip.Len())
	}
}

func TestImportTagsAliasing(t *testing.T) {
	path := writeProject(t, "", `
<tags id3v2="1" track="7" artist="The Band">
  <tag name="GENRE" value="Rock"/>
  <tag name="id3v2" value="dropped"/>
</tags>`, nil)

	tags := tagMap{}
	host := &stubHost{}
	if _, err := Run(context.Background(), path, host, tags, nil, Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, found := tags["id3v2"]; found {
		t.Error("obsolete id3v2 tag was stored")
	}
	if tags["TRACKNUMBER"] != "7" {
		t.Errorf("TRACKNUMBER = %q, want 7", tags["TRACKNUMBER"])
	}
	if tags["ARTIST"] != "The Band" {
		t.Errorf("ARTIST = %q (legacy attribute names are upper-cased)", tags["ARTIST"])
	}
	if tags["GENRE"] != "Rock" {
		t.Errorf("GENRE = %q", tags["GENRE"])
	}
}

func TestImportViewAttrsAppliedOnlyWhenPristine(t *testing.T) {
	attrs := `vpos="120" h="1.25" zoom="86.13" sel0="1.0" sel1="2.0" rate="48000" snapto="on" selectionformat="hh:mm:ss"`

	t.Run("pristine host", func(t *testing.T) {
		path := writeProject(t, attrs, "", nil)
		host := &stubHost{}
		if _, err := runImport(t, path, host, nil, Options{}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if host.rate != 48000 || !host.snap || host.vpos != 120 {
			t.Errorf("view state not applied: %+v", host)
		}
	})

	t.Run("dirty host", func(t *testing.T) {
		path := writeProject(t, attrs, "", nil)
		host := &stubHost{dirty: true}
		if _, err := runImport(t, path, host, nil, Options{}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(host.calls) != 0 {
			t.Errorf("view setters called on dirty host: %v", host.calls)
		}
	})

	t.Run("host with tracks", func(t *testing.T) {
		path := writeProject(t, attrs, "", nil)
		host := &stubHost{}
		host.tracks = append(host.tracks, &types.LabelTrack{})
		if _, err := runImport(t, path, host, nil, Options{}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(host.calls) != 0 {
			t.Errorf("view setters called on non-empty host: %v", host.calls)
		}
	})
}

func TestImportMissingRequiredProjectAttrs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proj.aup")
	doc := `<?xml version="1.0"?>
<project version="1.3.0" rate="44100"/>
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runImport(t, path, &stubHost{}, nil, Options{})
	if err == nil {
		t.Fatal("Run() without required project attributes succeeded")
	}
}

func TestImportMissingDataDirIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proj.aup")
	doc := `<?xml version="1.0"?>
<project version="1.3.0" audacityversion="2.4.2" projname="vanished_data"/>
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runImport(t, path, &stubHost{}, nil, Options{})
	if err == nil {
		t.Fatal("Run() with missing data folder succeeded")
	}
}

func TestImportDataDirFallback(t *testing.T) {
	// The declared projname does not exist; the "-data" directory named
	// after the project file does.
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "proj-data"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "proj.aup")
	doc := `<?xml version="1.0"?>
<project version="1.3.0" audacityversion="2.4.2" projname="mangled_name_data"/>
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runImport(t, path, &stubHost{}, nil, Options{}); err != nil {
		t.Fatalf("Run() error = %v, want fallback to proj-data", err)
	}
}

func TestImportMalformedXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proj.aup")
	doc := `<?xml version="1.0"?><project version="1" audacityversion="2" projname=""`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runImport(t, path, &stubHost{}, nil, Options{})
	var syntaxErr *types.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Run() error = %v, want *SyntaxError", err)
	}
}

func TestProjectAttrsApplyOrder(t *testing.T) {
	var a projectAttrs
	a.vpos.set(10)
	a.snapto.set(true)
	a.zoom.set(44100)
	a.rate.set(48000)

	host := &stubHost{}
	a.apply(host)

	want := []string{"rate", "snapto", "vpos", "zoom"}
	if len(host.calls) != len(want) {
		t.Fatalf("calls = %v", host.calls)
	}

	// Position fields go last; their interpretation depends on the
	// snap mode being set first.
	order := map[string]int{}
	for i, c := range host.calls {
		order[c] = i
	}
	if order["snapto"] > order["vpos"] {
		t.Errorf("snapto applied after vpos: %v", host.calls)
	}
	if order["rate"] > order["vpos"] {
		t.Errorf("rate applied after vpos: %v", host.calls)
	}
}

func TestProjectAttrsAbsentFieldsUntouched(t *testing.T) {
	var a projectAttrs
	a.zoom.set(100)

	host := &stubHost{}
	a.apply(host)

	if len(host.calls) != 1 || host.calls[0] != "zoom" {
		t.Errorf("calls = %v, want [zoom] only", host.calls)
	}
}
