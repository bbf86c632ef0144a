package persistence

import (
	"context"
	"encoding/json"

	"gestor-urbano/internal/models"

	"go.uber.org/zap"
)

// Adapter faz a ponte entre o AppState e o SnapshotStore. As duas direções
// falham de forma branda: load degrada para o estado padrão, save só loga.
type Adapter struct {
	store  SnapshotStore
	logger *zap.Logger
}

// NewAdapter cria o adaptador de persistência
func NewAdapter(store SnapshotStore, logger *zap.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

// Load lê o snapshot e devolve o AppState. Snapshot ausente ou corrompido
// vira estado padrão; snapshot parcial (de versão antiga) recebe os campos
// que faltam do padrão, sem tocar nos campos presentes.
func (a *Adapter) Load(ctx context.Context) models.AppState {
	raw, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Warn("Erro lendo snapshot, usando estado padrão", zap.Error(err))
		return models.DefaultState()
	}
	if raw == nil {
		a.logger.Info("Nenhum snapshot salvo, iniciando com estado padrão")
		return models.DefaultState()
	}

	var snap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &snap); err != nil {
		a.logger.Warn("Snapshot corrompido, usando estado padrão", zap.Error(err))
		return models.DefaultState()
	}

	// Migração aditiva: chaves ausentes recebem o valor do estado padrão.
	// Chaves presentes no snapshot sempre vencem.
	defRaw, err := json.Marshal(models.DefaultState())
	if err != nil {
		a.logger.Error("Erro serializando estado padrão", zap.Error(err))
		return models.DefaultState()
	}
	var defMap map[string]json.RawMessage
	if err := json.Unmarshal(defRaw, &defMap); err != nil {
		return models.DefaultState()
	}
	filled := 0
	for k, v := range defMap {
		if _, ok := snap[k]; !ok {
			snap[k] = v
			filled++
		}
	}

	merged, err := json.Marshal(snap)
	if err != nil {
		a.logger.Warn("Erro remontando snapshot, usando estado padrão", zap.Error(err))
		return models.DefaultState()
	}

	var state models.AppState
	if err := json.Unmarshal(merged, &state); err != nil {
		a.logger.Warn("Snapshot incompatível, usando estado padrão", zap.Error(err))
		return models.DefaultState()
	}
	state.Normalize()

	if filled > 0 {
		a.logger.Info("Snapshot parcial migrado", zap.Int("campos_preenchidos", filled))
	}
	return state
}

// Save serializa o estado inteiro e grava. Falha de escrita é logada e
// engolida: o estado em memória já avançou e não pode ser revertido por um
// problema de disco ou de quota.
func (a *Adapter) Save(ctx context.Context, state models.AppState) {
	data, err := json.Marshal(state)
	if err != nil {
		a.logger.Error("Erro serializando estado", zap.Error(err))
		return
	}
	if err := a.store.Save(ctx, data); err != nil {
		a.logger.Error("Erro salvando snapshot", zap.Error(err))
	}
}

// Ping repassa a verificação de saúde do backend
func (a *Adapter) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}
