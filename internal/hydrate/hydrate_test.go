package hydrate

import (
	"errors"
	"strings"
	"testing"
)

type dataObject struct {
	Name    string `json:"Name"`
	Counter int    `json:"Counter"`
}

func TestDecoderDecodesView(t *testing.T) {
	decoder := NewDecoder[dataObject]()
	got, err := decoder.Decode(Context{ObjectID: "d1", Version: 1}, map[string]any{
		"Name":    "Verden",
		"Counter": -1,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Verden" || got.Counter != -1 {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecoderRejectsNilView(t *testing.T) {
	_, err := NewDecoder[dataObject]().Decode(Context{ObjectID: "d1"}, nil)
	if err == nil || !strings.Contains(err.Error(), `view is nil for object "d1"`) {
		t.Fatalf("expected nil view error, got %v", err)
	}
}

func TestDecoderDisallowUnknownFields(t *testing.T) {
	decoder := NewDecoder[dataObject](WithDisallowUnknownFields[dataObject]())
	_, err := decoder.Decode(Context{ObjectID: "d1"}, map[string]any{"Name": "Hei", "Extra": true})
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestDecoderHooksRunInOrder(t *testing.T) {
	view := map[string]any{"Name": "hei"}
	decoder := NewDecoder[dataObject](
		WithPreHook[dataObject](func(ctx Context, in map[string]any) (map[string]any, error) {
			in["Counter"] = ctx.Version
			return in, nil
		}),
		WithPostHook[dataObject](func(_ Context, out *dataObject) error {
			out.Name = strings.ToUpper(out.Name)
			return nil
		}),
	)

	got, err := decoder.Decode(Context{ObjectID: "d1", Version: 4}, view)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "HEI" || got.Counter != 4 {
		t.Fatalf("unexpected decode result: %+v", got)
	}
	if _, ok := view["Counter"]; ok {
		t.Fatalf("expected caller view untouched, got %v", view)
	}
}

func TestDecoderWrapsPostHookError(t *testing.T) {
	boom := errors.New("boom")
	decoder := NewDecoder[dataObject](WithPostHook[dataObject](func(Context, *dataObject) error {
		return boom
	}))
	_, err := decoder.Decode(Context{ObjectID: "d1"}, map[string]any{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped post-hook error, got %v", err)
	}
}
