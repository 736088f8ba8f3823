package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tiffin-desk/internal/config"
)

// apiServer 后台与公开接口的 HTTP 服务
type apiServer struct {
	srv *http.Server
}

func newAPIServer(cfg config.ServerConfig, handler http.Handler) *apiServer {
	return &apiServer{srv: &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: seconds(cfg.ReadHeaderTimeoutSeconds, 10),
		IdleTimeout:       seconds(cfg.IdleTimeoutSeconds, 60),
	}}
}

func (s *apiServer) Name() string { return "http" }

// Start 阻塞监听，Shutdown 后返回 nil
func (s *apiServer) Start(context.Context) error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *apiServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func seconds(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
