// Package aup imports legacy Audacity .aup project files.
//
// Audacity 3.0 replaced the .aup XML project format with a single-file
// database, and with it the ability to open older projects directly. aup
// reads those legacy projects: the XML document describing tracks, clips
// and envelopes, plus the auxiliary data folder holding the actual sample
// blocks, reconstructed into an in-memory track graph.
//
// # Quick Start
//
// Importing a project into the bundled in-memory host:
//
//	handle, err := aup.Open("mix.aup")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	project := aup.NewProject()
//	tags := aup.TagMap{}
//
//	result, err := handle.Import(context.Background(), project, tags, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d tracks, %d warnings\n", len(project.Tracks), len(result.Warnings))
//
// # Two Phases
//
// An import runs in two strictly sequential phases on the calling
// goroutine. The structural parse walks the document's tag stream and
// rebuilds tracks, clips, labels and envelopes, deferring every audio
// reference into an ordered work queue. The materialization phase then
// drains that queue, decoding each referenced block or alias file and
// appending the samples to its clip. Progress reporting and cancellation
// happen between queue items.
//
// # Graceful Degradation
//
// Projects travel badly: data folders get separated from their .aup
// files, block files go missing, aliased audio moves. aup never fails an
// import over missing audio. Each unresolvable or unreadable reference
// becomes silence of its declared length, so every track keeps its full
// duration and all later clips keep their positions, and a Warning is
// collected for the user. Only structural corruption (malformed XML,
// unknown tags, invalid required attributes) fails the import.
//
// # Hosts
//
// The importer writes into a Host: a small set of interfaces covering the
// track container, wave track construction, and view/selection state. The
// Project type is a complete in-memory implementation. View and selection
// attributes from the document are only applied when the host was
// pristine when the import started; they never clobber existing work.
//
// # Error Handling
//
// aup distinguishes fatal errors from warnings:
//
//   - Fatal errors fail the whole import (unrecognized file, malformed
//     document, invalid structural attributes); no tracks are committed.
//   - Warnings are non-fatal (missing block files, unreadable aliases,
//     bypassed note tracks); the import succeeds with silence substituted.
//
// Check Result.Warnings after a successful import:
//
//	for _, w := range result.Warnings {
//		log.Printf("warning: %s", w)
//	}
package aup
