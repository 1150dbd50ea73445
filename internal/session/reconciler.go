package session

import (
	"context"
	"sync"

	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	"github.com/mlsniperpro/mediquestai/internal/profile"
)

// Invalidator termina la sesión externa de un proveedor (hoy solo ICP).
// El Reconciler la invoca ANTES de limpiar el estado local: si falla,
// la sesión local queda intacta y el logout se reporta como error.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Resolver resuelve get-or-create del perfil para una credencial.
// *profile.Ensurer lo implementa.
type Resolver interface {
	Ensure(ctx context.Context, cred identity.Credential) (*profile.Profile, bool, error)
}

// Subscriber recibe cada snapshot publicado, en orden de publicación.
type Subscriber func(Snapshot)

// Reconciler es el dueño del estado de sesión. Serializa los eventos de
// auth con un epoch: cada Login/Logout lo incrementa, y una resolución
// que termina con un epoch viejo se descarta sin publicar.
type Reconciler struct {
	store    profile.Store
	resolver Resolver
	external map[identity.Provider]Invalidator

	mu    sync.Mutex
	epoch uint64
	snap  Snapshot

	// pubMu serializa la publicación: se toma antes de soltar mu
	// (hand-over-hand) para que el orden de snapshots publicados
	// coincida con el orden de los cambios de estado.
	pubMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// Option configura el Reconciler.
type Option func(*Reconciler)

// WithExternalSession registra el invalidador de sesión externa de un
// proveedor. Logout lo llama primero cuando la sesión activa es de ese
// proveedor.
func WithExternalSession(p identity.Provider, inv Invalidator) Option {
	return func(r *Reconciler) { r.external[p] = inv }
}

// WithResolver reemplaza el resolver de perfiles (para tests).
func WithResolver(res Resolver) Option {
	return func(r *Reconciler) { r.resolver = res }
}

// New crea un Reconciler en SignedOut.
func New(store profile.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:    store,
		resolver: profile.NewEnsurer(store),
		external: make(map[identity.Provider]Invalidator),
		snap:     Snapshot{State: StateSignedOut},
		subs:     make(map[int]Subscriber),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Current retorna el último snapshot publicado.
func (r *Reconciler) Current() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.clone()
}

// Subscribe registra un consumidor y le entrega el snapshot actual de
// inmediato. El cancel devuelto lo desregistra.
func (r *Reconciler) Subscribe(fn Subscriber) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	snap := r.snap.clone()
	r.pubMu.Lock()
	r.mu.Unlock()

	r.subs[id] = fn
	fn(snap)
	r.pubMu.Unlock()

	return func() {
		r.pubMu.Lock()
		delete(r.subs, id)
		r.pubMu.Unlock()
	}
}

// publish reemplaza el snapshot y lo entrega a los suscriptores.
// Debe llamarse con mu tomado; toma pubMu antes de soltar mu
// (hand-over-hand) para que el orden de publicación coincida con el
// orden de los cambios de estado. Retorna la copia publicada.
func (r *Reconciler) publish(s Snapshot) Snapshot {
	r.snap = s
	out := s.clone()
	r.pubMu.Lock()
	r.mu.Unlock()

	for _, fn := range r.subs {
		fn(out)
	}
	r.pubMu.Unlock()
	return out
}

// Login procesa una credencial normalizada: publica la ventana de carga,
// resuelve get-or-create del perfil y publica el estado final. Si otro
// evento de auth llega mientras resuelve, el resultado se descarta y
// retorna ErrSuperseded.
func (r *Reconciler) Login(ctx context.Context, cred identity.Credential) (Snapshot, error) {
	log := logger.From(ctx).With(logger.Layer("session"), logger.Op("Reconciler.Login"),
		logger.Provider(string(cred.Provider)), logger.SubjectID(cred.SubjectID))

	if !cred.Provider.Valid() || cred.SubjectID == "" {
		return r.Current(), ErrInvalidCredential
	}

	// Authenticating -> ProfileResolving es automática; se publica un
	// solo snapshot de carga que cubre la ventana completa.
	r.mu.Lock()
	r.epoch++
	myEpoch := r.epoch
	c := cred
	r.publish(Snapshot{State: StateProfileResolving, Credential: &c, IsLoading: true})

	prof, created, err := r.resolver.Ensure(ctx, cred)

	r.mu.Lock()
	if r.epoch != myEpoch {
		r.mu.Unlock()
		log.Info("login superseded while resolving profile, discarding result")
		return r.Current(), ErrSuperseded
	}

	var final Snapshot
	switch {
	case err != nil:
		// El login ya fue verificado por el proveedor: un perfil
		// ilegible no lo revierte. Se sigue a role selection sin
		// perfil y se deja constancia en el log.
		log.Error("profile resolution failed, continuing to role selection", logger.Err(err))
		final = Snapshot{
			State:              StateRoleSelectionPending,
			Credential:         &c,
			NeedsRoleSelection: true,
		}
	case prof.RoleSelectionComplete:
		final = Snapshot{State: StateReady, Credential: &c, Profile: prof}
	default:
		final = Snapshot{
			State:              StateRoleSelectionPending,
			Credential:         &c,
			Profile:            prof,
			NeedsRoleSelection: true,
		}
	}
	out := r.publish(final)

	if err == nil {
		log.Info("login reconciled",
			logger.Bool("profileCreated", created),
			logger.String("state", string(final.State)))
	}
	return out.clone(), nil
}

// CompleteRoleSelection valida y persiste la selección de rol, y pasa la
// sesión a Ready. La validación corre antes de tocar el store; un submit
// inválido no genera tráfico. Un error del store deja la sesión en
// RoleSelectionPending y se propaga al llamador.
func (r *Reconciler) CompleteRoleSelection(ctx context.Context, sel profile.RoleSelection) (Snapshot, error) {
	log := logger.From(ctx).With(logger.Layer("session"), logger.Op("Reconciler.CompleteRoleSelection"),
		logger.Role(string(sel.Role)))

	if err := sel.Validate(); err != nil {
		return r.Current(), err
	}

	r.mu.Lock()
	if r.snap.State != StateRoleSelectionPending || r.snap.Credential == nil {
		r.mu.Unlock()
		return r.Current(), ErrNotPending
	}
	myEpoch := r.epoch
	subjectID := r.snap.Credential.SubjectID
	r.mu.Unlock()

	complete := true
	u := profile.Update{Role: &sel.Role, RoleSelectionComplete: &complete}
	if sel.FacilityName != "" {
		u.FacilityName = &sel.FacilityName
	}
	if sel.LicenseNumber != "" {
		u.LicenseNumber = &sel.LicenseNumber
	}
	if sel.Specialization != "" {
		u.Specialization = &sel.Specialization
	}

	if err := r.store.Update(ctx, subjectID, u); err != nil {
		log.Error("role selection write failed", logger.SubjectID(subjectID), logger.Err(err))
		return r.Current(), err
	}

	// Re-leer lo persistido; si la lectura falla justo después de una
	// escritura exitosa, se aplica la selección sobre la copia en
	// memoria en lugar de fallar el paso.
	prof, err := r.store.Read(ctx, subjectID)

	r.mu.Lock()
	if r.epoch != myEpoch {
		r.mu.Unlock()
		log.Info("role selection superseded, discarding result", logger.SubjectID(subjectID))
		return r.Current(), ErrSuperseded
	}
	if err != nil {
		log.Warn("re-read after role selection failed, applying in memory",
			logger.SubjectID(subjectID), logger.Err(err))
		if r.snap.Profile != nil {
			p := *r.snap.Profile
			prof = &p
		} else {
			prof = &profile.Profile{SubjectID: subjectID, Provider: r.snap.Credential.Provider}
		}
		prof.Role = sel.Role
		prof.RoleSelectionComplete = true
		prof.FacilityName = sel.FacilityName
		prof.LicenseNumber = sel.LicenseNumber
		prof.Specialization = sel.Specialization
	}

	out := r.publish(Snapshot{State: StateReady, Credential: r.snap.Credential, Profile: prof})

	log.Info("role selection completed", logger.SubjectID(subjectID))
	return out.clone(), nil
}

// Logout termina la sesión. Si el proveedor activo tiene sesión externa
// registrada, la invalida primero; un fallo ahí aborta el logout con la
// sesión local intacta. Desde SignedOut es un no-op exitoso.
func (r *Reconciler) Logout(ctx context.Context) error {
	log := logger.From(ctx).With(logger.Layer("session"), logger.Op("Reconciler.Logout"))

	r.mu.Lock()
	cred := r.snap.Credential
	r.mu.Unlock()

	if cred != nil {
		if inv, ok := r.external[cred.Provider]; ok {
			if err := inv.Invalidate(ctx); err != nil {
				log.Error("external session invalidation failed, keeping local session",
					logger.Provider(string(cred.Provider)), logger.Err(err))
				return err
			}
		}
	}

	r.mu.Lock()
	r.epoch++
	r.publish(Snapshot{State: StateSignedOut})

	if cred != nil {
		log.Info("signed out", logger.Provider(string(cred.Provider)),
			logger.SubjectID(cred.SubjectID))
	}
	return nil
}
