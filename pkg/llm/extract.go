package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSONBlock matches a ```json ... ``` fenced code block, the format
// every prompt in this system asks the model to answer in.
var fencedJSONBlock = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON pulls a JSON object or array out of raw LLM text and decodes
// it into v. It tries, in order: a fenced ```json``` block, then the
// substring from the first '{' to the last '}'. Every original tracker
// script (author_profiler, condition_verifier, logic_evaluator,
// logic_relation_mapper, solution_simulator, role_evaluator) repeats this
// exact two-step fallback under the name _parse_json; models routinely
// wrap valid JSON in prose or markdown fences despite being told not to.
func ExtractJSON(raw string, v any) bool {
	if m := fencedJSONBlock.FindStringSubmatch(raw); m != nil {
		if json.Unmarshal([]byte(m[1]), v) == nil {
			return true
		}
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return false
	}
	return json.Unmarshal([]byte(raw[start:end+1]), v) == nil
}
