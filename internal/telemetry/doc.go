// Package telemetry provides OpenTelemetry tracing and metrics for iocx.
//
// # Overview
//
// Spans and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector. Extraction runs are traced as "extract.Scan" spans; the HTTP
// server records request counts, latency and response sizes through the
// meter returned by Telemetry.Meter.
//
// # Usage
//
//	cfg := telemetry.NewDefaultConfig()
//	cfg.Enabled = true
//	tel, err := telemetry.New(ctx, cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
//	ex, _ := extract.New(v, extract.WithTracer(tel.Tracer("iocx.extract")))
//
// # Error Handling
//
// Telemetry failures do not stop extraction. If an exporter cannot be built
// the instance is marked degraded and hands out no-op providers.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	ex, _ := extract.New(v, extract.WithTracer(tt.Tracer("test")))
//	ex.Extract(ctx, text)
//	tt.AssertSpanExists(t, "extract.Scan")
package telemetry
