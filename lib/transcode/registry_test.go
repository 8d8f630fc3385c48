// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// widget has no built-in shape. Its registry entries store it as an
// OBJECT IDENTIFIER primitive holding the name.
type widget struct {
	Name string
}

var (
	widgetType    = reflect.TypeFor[widget]()
	widgetPtrType = reflect.TypeFor[*widget]()
	widgetTags    = tagtree.Stringify(tagtree.TagObjectIdentifier)
)

func encodeWidget(value any) (*tagtree.Node, error) {
	return tagtree.Primitive(tagtree.TagObjectIdentifier, []byte(value.(widget).Name)), nil
}

func decodeWidget(node *tagtree.Node) (any, error) {
	return widget{Name: string(node.Bytes())}, nil
}

func widgetRegistry() Registry {
	return Registry{
		Encode: map[reflect.Type]EncodeFunc{widgetType: encodeWidget},
		Decode: map[string]DecodeFunc{widgetTags: decodeWidget},
	}
}

func TestRegistryTagKey(t *testing.T) {
	if widgetTags != "[0:0:6]" {
		t.Errorf("widget tag key = %q, want [0:0:6]", widgetTags)
	}
}

func TestRegistryExtendsDispatch(t *testing.T) {
	value := Tuple{widget{Name: "gear"}, NewMap("w", widget{Name: "cog"})}

	if _, err := NewEncoder(Options{}).Encode(value); !errors.Is(err, ErrTypeNotSupported) {
		t.Fatalf("Encode without entry: err = %v, want ErrTypeNotSupported", err)
	}

	encoder := NewEncoder(Options{Registry: Registry{Encode: widgetRegistry().Encode}})
	node, err := encoder.Encode(value)
	if err != nil {
		t.Fatalf("Encode with entry: %v", err)
	}
	if got := node.Children()[0].Tags().String(); got != widgetTags {
		t.Errorf("widget node tags = %s, want %s", got, widgetTags)
	}

	if _, err := NewDecoder(Options{}).Decode(node); !errors.Is(err, ErrTypeNotSupported) {
		t.Fatalf("Decode without entry: err = %v, want ErrTypeNotSupported", err)
	}

	decoded, err := NewDecoder(Options{Registry: widgetRegistry()}).Decode(node)
	if err != nil {
		t.Fatalf("Decode with entry: %v", err)
	}
	if !Equal(decoded, value) {
		t.Errorf("Decode = %s, want %s", Format(decoded), Format(value))
	}
}

func TestRegistryNilEntries(t *testing.T) {
	broken := Registry{
		Encode: map[reflect.Type]EncodeFunc{widgetType: nil},
		Decode: map[string]DecodeFunc{widgetTags: nil},
	}

	if _, err := NewEncoder(Options{Registry: broken}).Encode(widget{}); !errors.Is(err, ErrBadRegistryEntry) {
		t.Errorf("Encode: err = %v, want ErrBadRegistryEntry", err)
	}

	node, err := encodeWidget(widget{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewDecoder(Options{Registry: broken}).Decode(node); !errors.Is(err, ErrBadRegistryEntry) {
		t.Errorf("Decode: err = %v, want ErrBadRegistryEntry", err)
	}

	err = broken.Validate()
	if !errors.Is(err, ErrBadRegistryEntry) {
		t.Fatalf("Validate: err = %v, want ErrBadRegistryEntry", err)
	}
	for _, want := range []string{"encode transcode.widget", "decode [0:0:6]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate error %q does not mention %q", err, want)
		}
	}
	if err := widgetRegistry().Validate(); err != nil {
		t.Errorf("Validate of good registry: %v", err)
	}
}

func TestRegistryEncodeFuncReturnsNothing(t *testing.T) {
	registry := Registry{Encode: map[reflect.Type]EncodeFunc{
		widgetType: func(any) (*tagtree.Node, error) { return nil, nil },
	}}
	if _, err := NewEncoder(Options{Registry: registry}).Encode(widget{}); !errors.Is(err, ErrBadRegistryEntry) {
		t.Errorf("err = %v, want ErrBadRegistryEntry", err)
	}
}

func TestRegistryErrorsPassThrough(t *testing.T) {
	failure := errors.New("widget refused")
	registry := Registry{Encode: map[reflect.Type]EncodeFunc{
		widgetType: func(any) (*tagtree.Node, error) { return nil, failure },
	}}
	_, err := NewEncoder(Options{Registry: registry}).Encode(List{widget{}})
	if !errors.Is(err, failure) {
		t.Fatalf("err = %v, want %v", err, failure)
	}
	var transcodeErr *Error
	if !errors.As(err, &transcodeErr) || transcodeErr.Path != "$[0]" {
		t.Errorf("err = %#v, want *Error at $[0]", err)
	}
}

func TestRegistryPointerType(t *testing.T) {
	registry := Registry{Encode: map[reflect.Type]EncodeFunc{
		widgetPtrType: func(value any) (*tagtree.Node, error) {
			return encodeWidget(*value.(*widget))
		},
	}}
	encoder := NewEncoder(Options{Registry: registry})

	node, err := encoder.Encode(&widget{Name: "p"})
	if err != nil {
		t.Fatalf("Encode pointer: %v", err)
	}
	if string(node.Bytes()) != "p" {
		t.Errorf("node content = %q, want p", node.Bytes())
	}
	if _, err := encoder.Encode(widget{Name: "v"}); !errors.Is(err, ErrTypeNotSupported) {
		t.Errorf("Encode value: err = %v, want ErrTypeNotSupported", err)
	}
}

func TestRegistryBuiltinShapesWin(t *testing.T) {
	registry := Registry{
		Encode: map[reflect.Type]EncodeFunc{reflect.TypeFor[celsius](): func(any) (*tagtree.Node, error) {
			return tagtree.Null(), nil
		}},
		Decode: map[string]DecodeFunc{tagtree.Stringify(tagtree.TagInteger): func(*tagtree.Node) (any, error) {
			return "overridden", nil
		}},
	}
	node, err := NewEncoder(Options{Registry: registry}).Encode(celsius(3))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if node.Kind() != tagtree.KindReal {
		t.Errorf("named float kind = %s, want real", node.Kind())
	}
	value, err := NewDecoder(Options{Registry: registry}).Decode(tagtree.Int64(1))
	if err != nil || value != int64(1) {
		t.Errorf("Decode = %v, %v, want 1", value, err)
	}
}

func TestRegistryIsCopied(t *testing.T) {
	registry := widgetRegistry()
	encoder := NewEncoder(Options{Registry: registry})
	delete(registry.Encode, widgetType)
	if _, err := encoder.Encode(widget{Name: "still"}); err != nil {
		t.Errorf("Encode after caller mutated registry: %v", err)
	}
}
