// Command easel provisions and inspects the workspace the PDF-to-video
// pipeline runs in. `easel setup` performs the bootstrap; `easel status`
// reports readiness; `easel history` lists past runs; `easel smoke` drives
// the pipeline's component test.
package main
