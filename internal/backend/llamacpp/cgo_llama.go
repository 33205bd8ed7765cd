//go:build llama && !llama_server

package llamacpp

// cgo link directives for the in-process engine.
// - rpath $ORIGIN lets the runtime loader find libllama.so and libggml*.so
//   next to the built binary (./bin).
// - -L${SRCDIR}/../../../bin points the linker at the same directory when
//   building the 'llama' variant.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../../bin -lllama
*/
import "C"
