package executor

import (
	"fmt"
	"strings"

	"github.com/ninthday/bruno/packages/core/env"
	"github.com/ninthday/bruno/packages/core/parser"
	bhttp "github.com/ninthday/bruno/packages/http"
	"github.com/tidwall/gjson"
)

// applyCaptures writes vars:post-response values into the shared
// collection variables. Paths that do not resolve leave the variable
// untouched rather than clearing a value an earlier request captured.
func applyCaptures(captures []*parser.Capture, resp *bhttp.Response, rt *env.Runtime) {
	if len(captures) == 0 {
		return
	}

	var bodyJSON gjson.Result
	if resp.IsJSON() {
		bodyJSON = gjson.ParseBytes(resp.Body)
	}

	for _, c := range captures {
		if value, ok := extract(c.Path, resp, bodyJSON); ok {
			rt.Collection[c.Name] = value
		}
	}
}

func extract(path string, resp *bhttp.Response, bodyJSON gjson.Result) (string, bool) {
	switch {
	case path == "res.status":
		return fmt.Sprintf("%d", resp.StatusCode), true
	case path == "res.responseTime":
		return fmt.Sprintf("%d", resp.DurationMs()), true
	case strings.HasPrefix(path, "res.headers."):
		value := resp.Header(strings.TrimPrefix(path, "res.headers."))
		return value, value != ""
	case path == "res.body":
		return resp.BodyString(), true
	case strings.HasPrefix(path, "res.body."):
		if !bodyJSON.Exists() {
			return "", false
		}
		value := bodyJSON.Get(strings.TrimPrefix(path, "res.body."))
		if !value.Exists() {
			return "", false
		}
		return value.String(), true
	default:
		return "", false
	}
}
