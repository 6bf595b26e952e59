package swagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

type document struct {
	OpenAPI string         `yaml:"openapi" json:"openapi"`
	Paths   map[string]any `yaml:"paths" json:"paths"`
}

func get(mux *http.ServeMux, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	convey.Convey("Given the docs routes on a mux", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		convey.Convey("The ReDoc page loads the local document", func() {
			w := get(mux, "/api-docs")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Closet API Docs")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Redoc.init('/openapi.yaml'")
		})

		convey.Convey("The YAML document describes the outfit API", func() {
			w := get(mux, "/openapi.yaml")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")

			var doc document
			convey.So(yaml.Unmarshal(w.Body.Bytes(), &doc), convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			for _, p := range []string{"/score", "/validate", "/compatible", "/outfits/top", "/search/sessions/{id}"} {
				convey.So(doc.Paths, convey.ShouldContainKey, p)
			}
		})

		convey.Convey("The JSON rendition carries the same paths", func() {
			w := get(mux, "/openapi.json")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/json")

			var fromJSON, fromYAML document
			convey.So(json.Unmarshal(w.Body.Bytes(), &fromJSON), convey.ShouldBeNil)
			convey.So(yaml.Unmarshal(OpenAPI, &fromYAML), convey.ShouldBeNil)
			convey.So(len(fromJSON.Paths), convey.ShouldEqual, len(fromYAML.Paths))
			convey.So(fromJSON.OpenAPI, convey.ShouldEqual, fromYAML.OpenAPI)
		})

		convey.Convey("A matching If-None-Match gets 304", func() {
			tag := get(mux, "/openapi.yaml").Header().Get("ETag")
			convey.So(tag, convey.ShouldNotBeEmpty)

			convey.So(get(mux, "/openapi.yaml", "If-None-Match", tag).Code, convey.ShouldEqual, http.StatusNotModified)
			convey.So(get(mux, "/openapi.json", "If-None-Match", tag).Code, convey.ShouldEqual, http.StatusNotModified)
			convey.So(get(mux, "/openapi.yaml", "If-None-Match", `"stale"`).Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Other methods are rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	convey.Convey("Given a nil mux", t, func() {
		convey.So(func() { Register(context.Background(), nil) }, convey.ShouldPanic)
	})
}

func TestStringKeys(t *testing.T) {
	convey.Convey("Given a decoded mapping with integer keys", t, func() {
		in := map[string]any{"responses": map[any]any{200: "ok"}, "list": []any{map[any]any{1: true}}}
		out, err := json.Marshal(stringKeys(in))
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(out), convey.ShouldEqual, `{"list":[{"1":true}],"responses":{"200":"ok"}}`)
	})
}
