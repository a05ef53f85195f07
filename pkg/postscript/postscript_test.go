package postscript_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/pkg/postscript"
)

// Example shows the simplest possible use of the engine: run a program and
// read back what it wrote to %stdout.
func Example() {
	engine := postscript.New()
	res, _ := engine.Run(`1 2 add =`)
	fmt.Print(string(res.Output))
	// Output: 3
}

func TestArithmeticAndPrint(t *testing.T) {
	engine := postscript.New()
	res, err := engine.Run(`1 2 add =`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimRight(string(res.Output), "\n"); got != "3" {
		t.Fatalf("stdout = %q, want %q", got, "3")
	}
}

func TestDefAndMultiply(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`/x 10 def x x mul =`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestForAllDoubling(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`[1 2 3] { 2 mul = } forall`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := strings.Fields(strings.TrimSpace(string(engine.Output())))
	want := []string{"2", "4", "6"}
	if len(got) != len(want) {
		t.Fatalf("output = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output = %v, want %v", got, want)
		}
	}
}

func TestStringLength(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`(hello) length =`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(string(engine.Output())); got != "5" {
		t.Fatalf("stdout = %q, want 5", got)
	}
}

func TestDictGet(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`<< /a 1 /b 2 >> /a get =`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(string(engine.Output())); got != "1" {
		t.Fatalf("stdout = %q, want 1", got)
	}
}

func TestRepeatPrint(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`3 { (x) print } repeat`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := string(engine.Output()); got != "xxx" {
		t.Fatalf("stdout = %q, want %q", got, "xxx")
	}
}

func TestStoppedRecoversFromDivideByZero(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`{ 1 2 add 0 div } stopped =`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(string(engine.Output())); got != "true" {
		t.Fatalf("stdout = %q, want true", got)
	}
}

func TestUndefinedNameSurfacesAsError(t *testing.T) {
	engine := postscript.New()
	_, err := engine.Run(`nosuchname`)
	if err == nil {
		t.Fatal("expected an error")
	}
	var psErr *postscript.Error
	if !asError(err, &psErr) {
		t.Fatalf("expected *postscript.Error, got %T", err)
	}
	if psErr.Name() != pserror.Undefined {
		t.Fatalf("error name = %q, want %q", psErr.Name(), pserror.Undefined)
	}
}

func TestBoundingBoxExtraction(t *testing.T) {
	src := "%!PS-Adobe-3.0 EPSF-3.0\n%%BoundingBox: 0 0 100 200\n%%EndComments\n1 1 add pop\n"
	bb, ok := postscript.BoundingBoxOf(src)
	if !ok {
		t.Fatal("expected a bounding box")
	}
	if bb.UpperRightX != 100 || bb.UpperRightY != 200 {
		t.Fatalf("bbox = %+v", bb)
	}
}

func TestTimeoutOnRunawayLoop(t *testing.T) {
	engine := postscript.New(postscript.WithMaxSteps(50))
	_, err := engine.Run(`{ } loop`)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	var psErr *postscript.Error
	if !asError(err, &psErr) || psErr.Name() != pserror.Timeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func asError(err error, target **postscript.Error) bool {
	e, ok := err.(*postscript.Error)
	if ok {
		*target = e
	}
	return ok
}
