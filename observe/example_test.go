package observe_test

import (
	"context"
	"fmt"
	"os"

	"github.com/jonwraymond/apicache/observe"
)

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "users",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 2},
	}
	fmt.Println(cfg.Validate())
	// Output:
	// observe: sample percentage must be between 0.0 and 1.0: got 2.000000
}

func ExampleOpMeta_ID() {
	fmt.Println(observe.OpMeta{Namespace: "users", Name: "Get"}.ID())
	fmt.Println(observe.OpMeta{Name: "Get"}.ID())
	// Output:
	// users.Get
	// Get
}

func ExampleNewObserver() {
	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "users",
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer func() { _ = obs.Shutdown(ctx) }()

	inst, err := observe.InstrumentsFromObserver(obs)
	fmt.Println(err, inst.Metrics != nil)
	// Output:
	// <nil> true
}

func ExampleNewLoggerWithWriter() {
	logger := observe.NewLoggerWithWriter("warn", os.Stdout)
	logger.Info(context.Background(), "dropped below warn")
	fmt.Println("done")
	// Output:
	// done
}
