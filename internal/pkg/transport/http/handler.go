package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	"github.com/jwlin/tigerfare/internal/pkg/exception"
)

type DecodeRequestFunc func(r *http.Request) (interface{}, error)

type EncodeResponseFunc func(ctx context.Context, w http.ResponseWriter, response interface{}) error

// DecodeRequest decodes the JSON body into *T. When *T implements
// render.Binder its Bind hook runs too, so request validation happens
// before the endpoint is called.
func DecodeRequest[T any](r *http.Request) (interface{}, error) {
	req := new(T)

	if binder, ok := any(req).(render.Binder); ok {
		if err := render.Bind(r, binder); err != nil {
			return nil, err
		}

		return req, nil
	}

	if err := render.DecodeJSON(r.Body, req); err != nil {
		return nil, err
	}

	return req, nil
}

// DecodeNothing is for routes that take no request body.
func DecodeNothing(_ *http.Request) (interface{}, error) {
	return nil, nil
}

// MakeHandlerFunc chains request decoding, the endpoint, and response
// encoding into a plain http.HandlerFunc.
func MakeHandlerFunc(e endpoint.Endpoint, dec DecodeRequestFunc, enc EncodeResponseFunc) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		request, err := dec(req)
		if err != nil {
			ErrorResponse(ctx, asBadRequest(err), respWriter)

			return
		}

		response, err := e(ctx, request)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		if err := enc(ctx, respWriter, response); err != nil {
			ErrorResponse(ctx, err, respWriter)
		}
	}
}

// asBadRequest keeps an ApplicationError as-is and downgrades everything
// else from the decoder to a 400, since decode failures are client errors.
func asBadRequest(err error) error {
	var appErr exception.ApplicationError
	if errors.As(err, &appErr) {
		return err
	}

	return exception.ApplicationError{
		Message:    err.Error(),
		StatusCode: http.StatusBadRequest,
		Cause:      err,
	}
}
