// Package logger provee un logger zap singleton para todo el servicio.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info", ServiceName: "mediquest"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Reconciler.Login"))
//	log.Info("session published", logger.Provider("icp"), logger.SubjectID(sub))
//
// Los middlewares HTTP inyectan un logger "scoped" (request_id, method, path)
// en el contexto; From(ctx) lo recupera en cualquier capa.
package logger
