package postgres

import (
	"context"
)

// DBInfo datos de la conexión activa, útiles para diagnosticar DATABASE_URL mal configurado.
type DBInfo struct {
	Database   string `json:"database"`
	User       string `json:"user"`
	ServerAddr string `json:"server_addr"`
	ServerPort int    `json:"server_port"`
	SearchPath string `json:"search_path"`
}

// HealthRepo consultas de diagnóstico.
type HealthRepo struct {
	q Querier
}

func NewHealthRepository(q Querier) *HealthRepo {
	return &HealthRepo{q: q}
}

// Check devuelve la base, el usuario y el servidor a los que está conectado el pool.
func (r *HealthRepo) Check(ctx context.Context) (*DBInfo, error) {
	const query = `
	SELECT current_database(), current_user,
	       COALESCE(host(inet_server_addr()), 'local'),
	       COALESCE(inet_server_port(), 0),
	       current_setting('search_path')`
	var info DBInfo
	if err := r.q.QueryRow(ctx, query).Scan(&info.Database, &info.User, &info.ServerAddr, &info.ServerPort, &info.SearchPath); err != nil {
		return nil, mapError("db-check", err)
	}
	return &info, nil
}
