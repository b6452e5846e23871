package cli

import (
	"fmt"
	"io"

	"wonderland/internal/cli/scheme/colours"
	"wonderland/internal/story/tts"
)

// ListVoices prints the voices engine offers, marking the one stories are
// read with.
func ListVoices(w io.Writer, engine tts.Engine, configured string) error {
	voices, err := engine.GetAvailableVoices()
	if err != nil {
		return fmt.Errorf("listing voices: %w", err)
	}
	if len(voices) == 0 {
		colours.Warning.Fprintln(w, "No voices found; the engine default will be used.")
		return nil
	}

	chosen := configured
	if chosen == "" {
		chosen = tts.PreferredVoice(voices)
	}

	colours.Title.Fprintf(w, "🎙️  %d voices\n", len(voices))
	for _, v := range voices {
		if v == chosen {
			colours.Success.Fprintf(w, "  ★ %s\n", v)
			continue
		}
		fmt.Fprintf(w, "    %s\n", v)
	}
	return nil
}

// ListEngines prints the speech engines usable on this platform.
func ListEngines(w io.Writer) {
	colours.Title.Fprintln(w, "🔈 Engines")
	for _, e := range tts.GetAvailableEngines() {
		colours.Info.Fprintf(w, "  %s\n", e)
	}
}
