package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoObject indicates the response contains no {...} span.
var ErrNoObject = errors.New("no JSON object found in response")

// CodeBlock represents a fenced code block.
type CodeBlock struct {
	// Language is the language specifier after the opening fence (e.g., "json", "go").
	Language string

	// Content is the code inside the block, excluding fences.
	Content string

	// Raw is the complete block including the fences.
	Raw string
}

// Parser extracts structured content from CLI responses.
type Parser struct {
	// codeBlockRegex matches fenced code blocks.
	codeBlockRegex *regexp.Regexp

	// strayFenceRegex matches fence lines left over from unterminated blocks.
	strayFenceRegex *regexp.Regexp
}

// NewParser creates a new response parser with compiled regexes.
func NewParser() *Parser {
	return &Parser{
		codeBlockRegex:  regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```"),
		strayFenceRegex: regexp.MustCompile("(?m)^\\s*```\\w*\\s*$"),
	}
}

// extractCodeBlocks finds all fenced code blocks in the response.
func (p *Parser) extractCodeBlocks(text string) []CodeBlock {
	matches := p.codeBlockRegex.FindAllStringSubmatch(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))

	for _, match := range matches {
		if len(match) >= 3 {
			blocks = append(blocks, CodeBlock{
				Language: match[1],
				Content:  match[2],
				Raw:      match[0],
			})
		}
	}

	return blocks
}

// ExtractCode extracts the first code block with the given language.
// If language is empty, returns the first code block found.
func (p *Parser) ExtractCode(response, language string) string {
	for _, block := range p.extractCodeBlocks(response) {
		if language == "" || block.Language == language {
			return block.Content
		}
	}
	return ""
}

// ExtractAllCode extracts all code blocks from the response.
func (p *Parser) ExtractAllCode(response string) []CodeBlock {
	return p.extractCodeBlocks(response)
}

// StripCodeFences replaces each fenced block with its content and drops any
// unmatched fence lines.
func (p *Parser) StripCodeFences(response string) string {
	text := p.codeBlockRegex.ReplaceAllString(response, "$2")
	return p.strayFenceRegex.ReplaceAllString(text, "")
}

// ObjectSpan returns the substring from the first '{' to the last '}' after
// fences are stripped.
func (p *Parser) ObjectSpan(response string) (string, error) {
	text := p.StripCodeFences(response)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", ErrNoObject
	}
	return text[start : end+1], nil
}

// ExtractObject decodes the outermost JSON object in the response.
func (p *Parser) ExtractObject(response string) (map[string]any, error) {
	span, err := p.ObjectSpan(response)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	return obj, nil
}

// HasCodeBlock checks if the response contains any code block.
func (p *Parser) HasCodeBlock(response string) bool {
	return p.codeBlockRegex.MatchString(response)
}

// ExtractObject is a convenience function using the default parser.
func ExtractObject(response string) (map[string]any, error) {
	return NewParser().ExtractObject(response)
}

// ObjectSpan is a convenience function using the default parser.
func ObjectSpan(response string) (string, error) {
	return NewParser().ObjectSpan(response)
}

// ExtractCode is a convenience function for code extraction.
func ExtractCode(response, language string) string {
	return NewParser().ExtractCode(response, language)
}
