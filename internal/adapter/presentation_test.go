// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pdiddy/docforge/pkg/types"
)

const (
	slideUntitledXML = `<?xml version="1.0"?>
<p:sld xmlns:p="http://example/p" xmlns:a="http://example/a">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
      <p:txBody>
        <a:p><a:r><a:t>Hello</a:t></a:r><a:r><a:t> world</a:t></a:r></a:p>
      </p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:sld>`

	slideTitledXML = `<?xml version="1.0"?>
<p:sld xmlns:p="http://example/p" xmlns:a="http://example/a">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Agenda</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:txBody>
        <a:p><a:r><a:t>Point one</a:t></a:r></a:p>
        <a:p><a:r><a:t>Point two</a:t></a:r></a:p>
      </p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:sld>`
)

func presentation(t *testing.T, extra map[string][]byte) []byte {
	t.Helper()
	files := map[string][]byte{
		"ppt/presentation.xml": []byte(`<p:presentation xmlns:p="http://example/p"/>`),
	}
	for name, content := range extra {
		files[name] = content
	}
	return buildZip(t, files)
}

func TestExtractPresentation(t *testing.T) {
	data := presentation(t, map[string][]byte{
		"ppt/slides/slide1.xml": []byte(slideUntitledXML),
		"ppt/slides/slide2.xml": []byte(slideTitledXML),
	})

	doc, err := extractPresentation("deck.pptx", data, NewAssetStore())
	if err != nil {
		t.Fatalf("extractPresentation() error: %v", err)
	}

	want := []types.Block{
		{Kind: types.BlockHeading, Level: 1, Text: "Untitled Slide 1"},
		{Kind: types.BlockParagraph, Text: "Hello world"},
		{Kind: types.BlockHeading, Level: 1, Text: "Agenda"},
		{Kind: types.BlockParagraph, Text: "Point one Point two"},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("blocks = %+v, want %+v", doc.Blocks, want)
	}
	if doc.Title != "Untitled Slide 1" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestExtractPresentation_SlideOrderIsNumeric(t *testing.T) {
	data := presentation(t, map[string][]byte{
		"ppt/slides/slide10.xml": []byte(slideTitledXML),
		"ppt/slides/slide2.xml":  []byte(slideUntitledXML),
	})

	doc, err := extractPresentation("deck.pptx", data, NewAssetStore())
	if err != nil {
		t.Fatal(err)
	}

	var headings []string
	for _, b := range doc.Blocks {
		if b.Kind == types.BlockHeading {
			headings = append(headings, b.Text)
		}
	}
	// slide2 sorts before slide10 despite lexicographic order.
	want := []string{"Untitled Slide 1", "Agenda"}
	if !reflect.DeepEqual(headings, want) {
		t.Errorf("headings = %v, want %v", headings, want)
	}
}

func TestExtractPresentation_SlideImage(t *testing.T) {
	const slideXML = `<p:sld xmlns:p="http://example/p" xmlns:a="http://example/a" xmlns:r="http://example/r">
  <p:cSld><p:spTree>
    <p:pic>
      <p:nvPicPr><p:cNvPr id="4" name="Picture 4" descr="Roadmap chart"/></p:nvPicPr>
      <p:blipFill><a:blip r:embed="rId2"/></p:blipFill>
    </p:pic>
  </p:spTree></p:cSld>
</p:sld>`
	const rels = `<Relationships>
  <Relationship Id="rId2" Target="../media/image1.png"/>
</Relationships>`
	payload := []byte("\x89PNG\r\n\x1a\nchart")

	store := NewAssetStore()
	data := presentation(t, map[string][]byte{
		"ppt/slides/slide1.xml":            []byte(slideXML),
		"ppt/slides/_rels/slide1.xml.rels": []byte(rels),
		"ppt/media/image1.png":             payload,
	})

	doc, err := extractPresentation("deck.pptx", data, store)
	if err != nil {
		t.Fatal(err)
	}

	var img *types.Block
	for i := range doc.Blocks {
		if doc.Blocks[i].Kind == types.BlockImage {
			img = &doc.Blocks[i]
		}
	}
	if img == nil {
		t.Fatalf("no image block in %+v", doc.Blocks)
	}
	if img.AssetID != AssetID(payload) || img.Caption != "Roadmap chart" {
		t.Errorf("image block = %+v", *img)
	}
	if !store.Has(img.AssetID) {
		t.Error("asset should be registered in the store")
	}
}

func TestExtractPresentation_NoSlides(t *testing.T) {
	doc, err := extractPresentation("empty.pptx", presentation(t, nil), NewAssetStore())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 0 {
		t.Errorf("blocks = %+v", doc.Blocks)
	}
	if len(doc.Findings) != 1 || doc.Findings[0].Message != "presentation has no slides" {
		t.Errorf("findings = %+v", doc.Findings)
	}
}

func TestExtractPresentation_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{
			name: "truncated archive",
			data: func(t *testing.T) []byte { return []byte("PK\x03\x04nope") },
		},
		{
			name: "missing presentation part",
			data: func(t *testing.T) []byte {
				return buildZipFromPairs(t, "ppt/slides/slide1.xml", "<p:sld/>")
			},
		},
		{
			name: "malformed slide",
			data: func(t *testing.T) []byte {
				return presentation(t, map[string][]byte{
					"ppt/slides/slide1.xml": []byte("<p:sld><broken"),
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractPresentation("bad.pptx", tt.data(t), NewAssetStore())
			var ce *CorruptInputError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want CorruptInputError", err)
			}
			if ce.Format != types.FormatPresentation {
				t.Errorf("format = %q", ce.Format)
			}
		})
	}
}
