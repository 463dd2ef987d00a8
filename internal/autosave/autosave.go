// Package autosave реализует контроллер автосохранения снапшота,
// находящегося в редактировании: машину состояний
// idle → dirty → saving → saved/error с дебаунсом записи.
//
// Контроллер держит черновик и базовую линию — сериализованную форму
// последнего успешно сохранённого состояния. Мутация, меняющая
// сериализованную форму, переводит контроллер в dirty и перезапускает
// таймер дебаунса; когда таймер срабатывает без новых мутаций,
// стоимости пересчитываются и черновик отправляется целиком.
//
// Запросы сохранения не сериализуются между собой: медленное первое
// сохранение и быстрое второе могут завершиться в обратном порядке,
// и тогда побеждает последний полученный ответ, а не последний
// отправленный запрос. Летящий запрос не отменяется, только
// вытесняется следующим циклом.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
	"github.com/calderondev/package-quoter/internal/pricing"
)

// Status — состояние контроллера автосохранения.
type Status string

const (
	// StatusIdle — изменений нет, сохранять нечего.
	StatusIdle Status = "idle"
	// StatusDirty — есть несохранённые изменения, таймер дебаунса запущен.
	StatusDirty Status = "dirty"
	// StatusSaving — запрос сохранения в полёте.
	StatusSaving Status = "saving"
	// StatusSaved — сохранение успешно, показывается короткое время.
	StatusSaved Status = "saved"
	// StatusError — сохранение не удалось, повтор в следующем цикле.
	StatusError Status = "error"
)

// Ошибки закрытия контроллера с несохранёнными изменениями.
var (
	// ErrSaveInFlight — запрос сохранения ещё в полёте.
	ErrSaveInFlight = errors.New("save still in progress")
	// ErrUnsavedChanges — есть изменения, которые ещё не отправлены.
	ErrUnsavedChanges = errors.New("unsaved changes")
)

// DefaultDebounce — задержка дебаунса между мутацией и сохранением.
const DefaultDebounce = 800 * time.Millisecond

// DefaultStatusHold — время показа состояний saved и error
// перед возвратом в idle.
const DefaultStatusHold = 1500 * time.Millisecond

// Saver описывает операцию сохранения, потребляемую контроллером.
type Saver interface {
	Update(ctx context.Context, id string, snap models.Snapshot) (*models.Snapshot, error)
}

// Options настраивают тайминги контроллера. Нулевые значения
// заменяются значениями по умолчанию.
type Options struct {
	Debounce   time.Duration
	StatusHold time.Duration
	// OnStatus вызывается при каждой смене состояния.
	// Вызов выполняется вне внутренней блокировки контроллера.
	OnStatus func(Status)
}

// Controller — контроллер автосохранения одного снапшота.
type Controller struct {
	saver Saver
	log   *slog.Logger

	debounce   time.Duration
	statusHold time.Duration
	onStatus   func(Status)

	mu       sync.Mutex
	draft    models.Snapshot
	baseline []byte
	status   Status
	timer    *time.Timer
	closed   bool
}

// New создаёт контроллер для снапшота snap. Снапшот считается
// сохранённым: его сериализованная форма становится базовой линией.
func New(saver Saver, snap models.Snapshot, log *slog.Logger, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.StatusHold <= 0 {
		opts.StatusHold = DefaultStatusHold
	}
	return &Controller{
		saver:      saver,
		log:        log,
		debounce:   opts.Debounce,
		statusHold: opts.StatusHold,
		onStatus:   opts.OnStatus,
		draft:      snap,
		baseline:   serialize(snap),
		status:     StatusIdle,
	}
}

func serialize(snap models.Snapshot) []byte {
	// Порядок полей структуры фиксирован, поэтому сериализованная форма
	// детерминирована и пригодна для сравнения.
	data, _ := json.Marshal(snap)
	return data
}

// Status возвращает текущее состояние контроллера.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot возвращает копию текущего черновика.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Mutate применяет изменение к черновику. Если сериализованная форма
// отличается от базовой линии, контроллер становится dirty и таймер
// дебаунса перезапускается; мутация во время полёта сохранения
// не отменяет его, а запускает собственный цикл.
func (c *Controller) Mutate(fn func(*models.Snapshot)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	fn(&c.draft)

	if string(serialize(c.draft)) == string(c.baseline) {
		// Мутация вернула черновик к сохранённому состоянию.
		if c.status == StatusDirty {
			c.stopTimerLocked()
			c.setStatusLocked(StatusIdle)
		}
		c.mu.Unlock()
		c.notify()
		return
	}

	if c.status != StatusSaving {
		c.setStatusLocked(StatusDirty)
	}
	c.restartTimerLocked()
	c.mu.Unlock()
	c.notify()
}

// restartTimerLocked перезапускает единственный таймер дебаунса.
// Вызывается под блокировкой.
func (c *Controller) restartTimerLocked() {
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.debounce, c.save)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// save срабатывает по таймеру дебаунса: пересчитывает стоимости
// и отправляет черновик целиком.
func (c *Controller) save() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	c.draft.Costs = pricing.Summary(&c.draft)
	pendingSnap := c.draft
	pending := serialize(pendingSnap)
	c.setStatusLocked(StatusSaving)
	c.mu.Unlock()
	c.notify()

	canonical, err := c.saver.Update(context.Background(), pendingSnap.ID, pendingSnap)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.log.Error("autosave failed", sl.Err(err), slog.String("snapshot_id", pendingSnap.ID))
		c.setStatusLocked(StatusError)
		c.mu.Unlock()
		c.notify()
		c.holdThen(func() {
			// Изменения не потеряны: базовая линия не сдвинулась,
			// следующий цикл отправит их повторно.
			c.mu.Lock()
			if c.closed || c.status != StatusError {
				c.mu.Unlock()
				return
			}
			c.setStatusLocked(StatusIdle)
			if string(serialize(c.draft)) != string(c.baseline) {
				c.setStatusLocked(StatusDirty)
				c.restartTimerLocked()
			}
			c.mu.Unlock()
			c.notify()
		})
		return
	}

	// Канонический ответ сервера становится новой базовой линией.
	// Побеждает последний полученный ответ: при гонке двух сохранений
	// это осознанный компромисс, а не гарантия монотонности.
	c.baseline = serialize(*canonical)
	if string(serialize(c.draft)) == string(pending) {
		// Пока запрос летел, новых мутаций не было:
		// черновик сверяется с канонической копией сервера.
		// Иначе новая мутация уже запустила собственный цикл дебаунса.
		c.draft = *canonical
	}
	c.setStatusLocked(StatusSaved)
	c.mu.Unlock()
	c.notify()

	c.holdThen(func() {
		c.mu.Lock()
		if c.closed || c.status != StatusSaved {
			c.mu.Unlock()
			return
		}
		if string(serialize(c.draft)) != string(c.baseline) {
			c.setStatusLocked(StatusDirty)
		} else {
			c.setStatusLocked(StatusIdle)
		}
		c.mu.Unlock()
		c.notify()
	})
}

func (c *Controller) holdThen(fn func()) {
	time.AfterFunc(c.statusHold, fn)
}

func (c *Controller) setStatusLocked(status Status) {
	c.status = status
}

// notify сообщает подписчику о текущем состоянии.
func (c *Controller) notify() {
	if c.onStatus == nil {
		return
	}
	c.onStatus(c.Status())
}

// Close останавливает контроллер. Если сохранение в полёте или есть
// несохранённые изменения, возвращается соответствующая ошибка,
// контроллер остаётся рабочим: вызывающая сторона должна запросить
// подтверждение и либо дождаться, либо вызвать ForceClose.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusSaving {
		return ErrSaveInFlight
	}
	if string(serialize(c.draft)) != string(c.baseline) {
		return ErrUnsavedChanges
	}

	c.teardownLocked()
	return nil
}

// ForceClose останавливает контроллер, отбрасывая несохранённые изменения.
// Летящий запрос не отменяется, но его результат будет проигнорирован.
func (c *Controller) ForceClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

// teardownLocked гасит таймер и запрещает его перезапуск.
func (c *Controller) teardownLocked() {
	c.stopTimerLocked()
	c.closed = true
	c.status = StatusIdle
}
