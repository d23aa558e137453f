package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/puran-water/flownote/internal/convert"
	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/notation"
	"github.com/puran-water/flownote/internal/plant"
)

// Run executes one conversion according to the configured direction. stdin
// backs the "-" input path.
func (a *App) Run(ctx context.Context, stdin io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "direction", a.config.Direction)

	input, err := a.readInput(stdin)
	if err != nil {
		return err
	}

	switch a.config.Direction {
	case DirectionToModel:
		return a.runToModel(ctx, input)
	case DirectionToNotation:
		return a.runToNotation(ctx, input)
	case DirectionRoundTrip:
		return a.runRoundTrip(ctx, input)
	}
	return fmt.Errorf("unknown direction %q", a.config.Direction)
}

func (a *App) readInput(stdin io.Reader) ([]byte, error) {
	if a.config.InputPath == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

// runToModel converts notation text to a plant model and writes it as JSON.
func (a *App) runToModel(ctx context.Context, input []byte) error {
	pm, err := a.converter.ToPlantModel(ctx, string(input), convert.Options{
		ExpandAbstractBlocks: a.config.ExpandAbstractBlocks,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(pm)
}

// runToNotation reads a JSON plant model and writes notation text.
func (a *App) runToNotation(ctx context.Context, input []byte) error {
	pm := plant.NewModel()
	if err := json.Unmarshal(input, pm); err != nil {
		return fmt.Errorf("decoding plant model: %w", err)
	}

	text, err := a.converter.ToNotation(ctx, pm, a.config.Canonical, notation.VersionArrow)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.outW, text)
	return err
}

// runRoundTrip converts notation to a plant model, back, and reports
// whether the signature survived.
func (a *App) runRoundTrip(ctx context.Context, input []byte) error {
	pm, err := a.converter.ToPlantModel(ctx, string(input), convert.Options{
		ExpandAbstractBlocks: a.config.ExpandAbstractBlocks,
	})
	if err != nil {
		return err
	}

	ok, diff, err := a.converter.RoundTripCheck(ctx, pm)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.outW, diff)
		return fmt.Errorf("round trip diverged")
	}
	_, err = fmt.Fprintln(a.outW, "round trip ok")
	return err
}
