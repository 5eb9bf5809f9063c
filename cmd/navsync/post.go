package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	navsync "github.com/goliatone/go-navsync"
)

//go:embed post.schema.json
var postSchemaData []byte

const postSchemaURL = "navsync/post.schema.json"

var errPostPathRequired = errors.New("navsync: --post is required")

var (
	postSchemaOnce sync.Once
	postSchema     *jsonschema.Schema
	postSchemaErr  error
)

func compiledPostSchema() (*jsonschema.Schema, error) {
	postSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(postSchemaURL, bytes.NewReader(postSchemaData)); err != nil {
			postSchemaErr = err
			return
		}
		postSchema, postSchemaErr = compiler.Compile(postSchemaURL)
	})
	return postSchema, postSchemaErr
}

// readPost loads a post document from path, or from stdin when path is "-".
func readPost(path string, stdin io.Reader) (*navsync.Post, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errPostPathRequired
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read post %q: %w", path, err)
	}
	return decodePost(data)
}

// decodePost validates data against the post schema before decoding it.
func decodePost(data []byte) (*navsync.Post, error) {
	schema, err := compiledPostSchema()
	if err != nil {
		return nil, fmt.Errorf("compile post schema: %w", err)
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse post: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("invalid post: %s", describeSchemaError(err))
	}

	var post navsync.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &post, nil
}

func describeSchemaError(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err.Error()
	}

	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "/"
			}
			issues = append(issues, location+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(issues, "; ")
}
