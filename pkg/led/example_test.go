package led_test

import (
	"fmt"
	"log/slog"

	"github.com/Seann-Moser/ledpin/pkg/io"
	"github.com/Seann-Moser/ledpin/pkg/led"
)

func Example() {
	sim := io.NewSim(slog.New(slog.DiscardHandler))
	l, err := led.New(sim, 13)
	if err != nil {
		panic(err)
	}
	fmt.Println(l.State())
	_ = l.On()
	fmt.Println(l.State(), sim.Level(13))
	_ = l.Toggle()
	fmt.Println(l.State(), len(sim.Writes()))
	// Output:
	// inactive
	// active active
	// inactive 3
}
