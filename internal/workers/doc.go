/*
Package workers sizes FFmpeg thread counts from the CPUs actually available to
the process.

Go sets GOMAXPROCS from the container CPU limit (Go 1.19+), while
runtime.NumCPU() still reports the host. FFmpeg's own auto-detection sees the
host too, so a 2-CPU pod on a 64-core node would spawn 64 encoder threads and
spend its quota on context switches. The transcoder passes an explicit
-threads value computed here instead.

	encodeThreads := workers.ForCPU(16) // encoder: one thread per CPU, capped
	decodeThreads := workers.ForMixed(8) // decoder: reads and converts, 1.5 per CPU

Operators may pin the value with ENCODER_THREADS; the per-call limit still
applies.
*/
package workers
