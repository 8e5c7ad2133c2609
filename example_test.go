package bounceflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/jfellner/bounceflow"
	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	"github.com/jfellner/bounceflow/pkg/domain"
)

// Example bounces a one-item session on the in-memory host.
func Example() {
	host := memory.NewHost()
	synth := host.AddTrack("Prophet Pad")
	host.AddFX(synth, "VST: ReaInsert (Cockos)", true)
	host.AddFX(synth, "VST: ReaEQ (Cockos)", true)
	host.SelectTracks(synth)
	host.SetTimeSelection(0, 4)
	if _, err := host.AddMIDIItem(synth, 0, 4, memory.MinimalSMF(60)); err != nil {
		log.Fatal(err)
	}

	host.InstallRenderCommand(41719, " - stem")
	host.InstallRenderCommand(41721, " - stem 2")
	host.RegisterNamed("_XENAKIOS_STORERENDERSPEED")
	host.RegisterNamed("_XENAKIOS_SETRENDERSPEEDREALTIME")
	host.RegisterNamed("_XENAKIOS_RECALLRENDERSPEED")

	eng, err := bounceflow.New(host)
	if err != nil {
		log.Fatal(err)
	}

	report, err := eng.Run(context.Background(), domain.PassPrimary)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(report.Status)
	fmt.Println(report.RenderedTrack)
	fmt.Println(report.FXTransferred)
	// Output:
	// succeeded
	// Prophet Pad - stem
	// 1
}
