package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a wrapped handler", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("fail") != "" {
				writeError(w, badRequest("api.test", "nope"))
				return
			}
			_, _ = w.Write([]byte("ok"))
		}, "test")

		Convey("A plain write passes through as 200", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "ok")
		})

		Convey("An error keeps its status", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/?fail=1", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
		})
	})

	Convey("Given a recorder", t, func() {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
		rec.WriteHeader(http.StatusTeapot)
		rec.WriteHeader(http.StatusOK)
		So(rec.status, ShouldEqual, http.StatusTeapot)
		So(rec.Unwrap(), ShouldNotBeNil)
	})
}

func TestErrorClass(t *testing.T) {
	Convey("Error classes match the codes written by writeError", t, func() {
		cases := map[error]int{
			ErrBadRequest:   http.StatusBadRequest,
			ErrNotFound:     http.StatusNotFound,
			ErrBackpressure: http.StatusTooManyRequests,
		}
		for err, status := range cases {
			got, code := classify(err)
			So(got, ShouldEqual, status)
			So(errorClass(got), ShouldEqual, code)
		}
		So(errorClass(http.StatusBadGateway), ShouldEqual, "internal_error")
		So(errorClass(http.StatusTeapot), ShouldEqual, "client_error")
	})
}
