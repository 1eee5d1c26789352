// respond.go - Content negotiation and request parameter helpers
package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEMsgpack is the media type of msgpack encoded responses.
const MIMEMsgpack = "application/msgpack"

// wantsMsgpack reports whether the client asked for msgpack.
func wantsMsgpack(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, MIMEMsgpack) || strings.Contains(accept, "application/x-msgpack")
}

// respond writes v as msgpack when requested, JSON otherwise. Both encodings
// use the json struct tags so their keys are identical.
func respond(c echo.Context, status int, v interface{}) error {
	if !wantsMsgpack(c) {
		return c.JSON(status, v)
	}
	data, err := encodeMsgpack(v)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(status, MIMEMsgpack, data)
}

func encodeMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pageParams reads page and pageSize. page < 1 becomes 1; a missing or invalid
// pageSize uses defaultSize and larger values are capped at maxSize.
func pageParams(c echo.Context, defaultSize, maxSize int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

// orderID parses the :id path parameter.
func orderID(c echo.Context) (int, error) {
	raw := c.Param("id")
	if raw == "" {
		return 0, NewValidationError("id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewBadRequestError("invalid order id: "+raw, err)
	}
	return id, nil
}

// queryList collects a repeated or comma separated query parameter.
func queryList(c echo.Context, name string) []string {
	var out []string
	for _, v := range c.QueryParams()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func noContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
