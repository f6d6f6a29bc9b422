// Command aup-dump imports a legacy Audacity project and prints the
// reconstructed track graph. Useful for checking what a project contains
// before wiring the library into a real host.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/simonhull/aup"
)

// CLI defines the command-line interface for aup-dump.
var CLI struct {
	Path    string `arg:"" help:"Project file (.aup)" type:"path"`
	DataDir string `name:"data-dir" short:"d" help:"Directory the project data folder is looked up in" type:"path"`
	MIDI    bool   `name:"midi" help:"Import note tracks instead of bypassing them"`
	Quiet   bool   `name:"quiet" short:"q" help:"Suppress warnings"`

	Version kong.VersionFlag `name:"version" help:"Print version and exit"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("aup-dump"),
		kong.Description("Dump the contents of a legacy Audacity project file"),
		kong.UsageOnError(),
		kong.Vars{"version": aup.Version},
	)

	ctx.FatalIfErrorf(run())
}

func run() error {
	var opts []aup.Option
	if CLI.DataDir != "" {
		opts = append(opts, aup.WithDataDir(CLI.DataDir))
	}
	if CLI.MIDI {
		opts = append(opts, aup.WithMIDI())
	}
	if CLI.Quiet {
		opts = append(opts, aup.WithIgnoreWarnings())
	}

	handle, err := aup.Open(CLI.Path, opts...)
	if err != nil {
		return err
	}

	project := aup.NewProject()
	tags := aup.TagMap{}

	result, err := handle.Import(context.Background(), project, tags, nil)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d tracks, rate %g Hz\n", CLI.Path, len(project.Tracks), project.Rate)

	for i, t := range project.Tracks {
		switch t := t.(type) {
		case *aup.WaveTrack:
			fmt.Printf("%3d. wave   %q rate=%g gain=%g pan=%g clips=%d samples=%d\n",
				i+1, t.Name, t.Rate, t.Gain, t.Pan, len(t.Clips), t.Len())
			for _, c := range t.Clips {
				fmt.Printf("       clip offset=%gs samples=%d cutlines=%d\n",
					c.Offset, c.Len(), len(c.CutLines))
			}
		case *aup.LabelTrack:
			fmt.Printf("%3d. label  %q labels=%d\n", i+1, t.Name, len(t.Labels))
			for _, l := range t.Labels {
				fmt.Printf("       [%g..%g] %q\n", l.T0, l.T1, l.Title)
			}
		case *aup.NoteTrack:
			fmt.Printf("%3d. note   %q attrs=%d\n", i+1, t.Name, len(t.Attrs))
		case *aup.TimeTrack:
			fmt.Printf("%3d. time   %q range=[%g..%g] points=%d\n",
				i+1, t.Name, t.RangeLower, t.RangeUpper, len(t.Envelope().Points))
		}
	}

	if len(tags) > 0 {
		fmt.Println("tags:")
		for _, name := range tags.Names() {
			fmt.Printf("  %s = %q\n", name, tags[name])
		}
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	return nil
}
