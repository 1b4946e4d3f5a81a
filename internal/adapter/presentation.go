// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/docforge/pkg/types"
)

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPresentation parses an OOXML presentation. Each slide becomes a
// level-1 heading (the slide title, or "Untitled Slide N" when absent)
// followed by one paragraph per text-bearing shape in shape order.
func extractPresentation(sourceID string, data []byte, assets *AssetStore) (*types.Document, error) {
	files, err := openArchive(types.FormatPresentation, data)
	if err != nil {
		return nil, err
	}
	if files["ppt/presentation.xml"] == nil {
		return nil, corrupt(types.FormatPresentation, "ppt/presentation.xml not found in archive", nil)
	}

	type slideRef struct {
		n    int
		name string
	}
	var slides []slideRef
	for name := range files {
		if m := slideNameRe.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slideRef{n: n, name: name})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	doc := &types.Document{SourceID: sourceID}
	for i, slide := range slides {
		rels := parseRels(files, path.Join("ppt/slides/_rels", path.Base(slide.name)+".rels"))
		title, blocks, err := extractSlide(sourceID, files, slide.name, rels, assets)
		if err != nil {
			return nil, err
		}
		if title == "" {
			title = fmt.Sprintf("Untitled Slide %d", i+1)
		}
		if doc.Title == "" {
			doc.Title = title
		}
		doc.Blocks = append(doc.Blocks, types.Block{
			Kind:  types.BlockHeading,
			Level: 1,
			Text:  title,
		})
		doc.Blocks = append(doc.Blocks, blocks...)
	}
	if len(slides) == 0 {
		doc.Findings = append(doc.Findings, types.Finding{
			Severity: types.SeverityInfo,
			Rule:     "extract",
			Message:  "presentation has no slides",
			Block:    -1,
		})
	}
	return doc, nil
}

// extractSlide walks one slide part, returning the slide title and the
// content blocks in shape z-order.
func extractSlide(sourceID string, files map[string]*zip.File, name string, rels map[string]string, assets *AssetStore) (string, []types.Block, error) {
	f := files[name]
	data, err := readZipFile(f)
	if err != nil {
		return "", nil, corrupt(types.FormatPresentation, "open "+name, err)
	}

	var (
		title  string
		blocks []types.Block

		inShape    bool
		isTitle    bool
		inText     bool
		para       strings.Builder
		shapeParas []string

		inPic   bool
		caption string
	)

	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, corrupt(types.FormatPresentation, "malformed "+name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				inShape = true
				isTitle = false
				shapeParas = nil
			case "ph":
				if inShape {
					if typ := attr(t, "type"); typ == "title" || typ == "ctrTitle" {
						isTitle = true
					}
				}
			case "p":
				if inShape {
					para.Reset()
				}
			case "t":
				inText = true
			case "pic":
				inPic = true
				caption = ""
			case "cNvPr":
				if inPic {
					caption = attr(t, "descr")
					if caption == "" {
						caption = attr(t, "name")
					}
				}
			case "blip":
				if !inPic {
					break
				}
				if target, ok := rels[attr(t, "embed")]; ok {
					mediaName := path.Clean(path.Join(path.Dir(name), target))
					if mf := files[mediaName]; mf != nil {
						if payload, err := readZipFile(mf); err == nil {
							id := assets.Put(sourceID, path.Base(target), payload)
							blocks = append(blocks, types.Block{
								Kind:    types.BlockImage,
								AssetID: id,
								Caption: caption,
							})
						}
					}
				}
			}

		case xml.CharData:
			if inText && inShape {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inShape {
					if text := collapseSpace(para.String()); text != "" {
						shapeParas = append(shapeParas, text)
					}
					para.Reset()
				}
			case "sp":
				inShape = false
				text := strings.Join(shapeParas, " ")
				if isTitle {
					if title == "" {
						title = text
					}
				} else if text != "" {
					blocks = append(blocks, types.Block{
						Kind: types.BlockParagraph,
						Text: text,
					})
				}
			case "pic":
				inPic = false
			}
		}
	}

	return title, blocks, nil
}
