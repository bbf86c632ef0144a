// Package store guarda o único valor de AppState da sessão. Toda mutação
// substitui o valor inteiro (copy-on-write): leitores nunca observam um
// estado parcialmente atualizado.
package store

import (
	"context"
	"sync"

	"gestor-urbano/internal/models"
	"gestor-urbano/internal/persistence"
	"gestor-urbano/internal/state"

	"go.uber.org/zap"
)

// Subscriber recebe o snapshot após cada mutação efetiva
type Subscriber func(models.AppState)

// Store é o dono do estado. O mutex apenas serializa as goroutines HTTP na
// ordem lógica de eventos; não há dois escritores lógicos concorrentes.
type Store struct {
	mu      sync.RWMutex
	current models.AppState
	persist *persistence.Adapter
	logger  *zap.Logger

	subsMu      sync.RWMutex
	subscribers []Subscriber
}

// New cria o store carregando o estado do adaptador de persistência
func New(ctx context.Context, persist *persistence.Adapter, logger *zap.Logger) *Store {
	return &Store{
		current: persist.Load(ctx),
		persist: persist,
		logger:  logger,
	}
}

// Snapshot devolve uma cópia profunda do estado atual
func (st *Store) Snapshot() models.AppState {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.Clone()
}

// Apply executa uma operação pura sobre o estado atual. Se a operação
// reporta mudança, o valor inteiro é substituído, o snapshot é salvo
// (melhor esforço) e os assinantes são notificados. Precondição violada na
// operação devolve false sem alterar nada.
//
// Save e notify ficam dentro da seção crítica: os snapshots chegam ao
// backend de persistência e aos assinantes na mesma ordem das mutações, e
// o último snapshot gravado sempre corresponde ao estado em memória.
func (st *Store) Apply(ctx context.Context, op state.Op) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, changed := op(st.current)
	if !changed {
		return false
	}
	st.current = next
	snapshot := next.Clone()

	// Persistência síncrona e de melhor esforço: uma falha de escrita não
	// desfaz a transição já aplicada.
	st.persist.Save(ctx, snapshot)
	st.notify(snapshot)
	return true
}

// Subscribe registra um assinante de mudanças de estado
func (st *Store) Subscribe(sub Subscriber) {
	st.subsMu.Lock()
	defer st.subsMu.Unlock()
	st.subscribers = append(st.subscribers, sub)
}

func (st *Store) notify(snapshot models.AppState) {
	st.subsMu.RLock()
	defer st.subsMu.RUnlock()
	for _, sub := range st.subscribers {
		sub(snapshot)
	}
}
