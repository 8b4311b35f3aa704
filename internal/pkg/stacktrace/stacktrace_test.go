package stacktrace

import "testing"

func TestInternalPaths(t *testing.T) {
	// Arrange
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/growguard/internal/identity/usecase.(*Usecase).Login(...)
	/src/growguard/internal/identity/usecase/login.go:42 +0x1a
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2294 +0x29
`)

	// Act
	got := InternalPaths(stack)

	// Assert
	if len(got) != 1 || got[0] != "internal/identity/usecase/login.go:42" {
		t.Fatalf("InternalPaths() = %#v", got)
	}
}
