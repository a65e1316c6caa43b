package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/creditmonitor/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withBearerMetadata(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// UnaryAuthInterceptor is the gRPC counterpart of WithBearer and
// WithAuthFailureInterceptor: it attaches the session credential as metadata
// and reports Unauthenticated / PermissionDenied replies to onFailure as
// 401 / 403.
func UnaryAuthInterceptor(tokens TokenSource, onFailure AuthFailureHandler) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {

		var token string
		if tokens != nil {
			if token = tokens(); token != "" {
				ctx = withBearerMetadata(ctx, token)
			}
		}

		err := invoker(ctx, method, req, reply, cc, opts...)
		if err == nil || onFailure == nil {
			return err
		}

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		switch st.Code() {
		case codes.Unauthenticated:
			onFailure(ctx, http.StatusUnauthorized, token)
		case codes.PermissionDenied:
			onFailure(ctx, http.StatusForbidden, token)
		}

		return err
	}
}
