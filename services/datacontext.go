package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobsite-api/models"

	"github.com/sirupsen/logrus"
)

// Session identifies the acting user of a request. It is passed explicitly to
// the operations that need an actor (the time clock); there is no ambient
// current-user state.
type Session struct {
	UserID int
}

// DataContext holds the in-process mirror of every entity collection and is
// the only writer to it. Mutations take the single-writer lock for their full
// duration, store round-trip included, so call order is apply order and id
// assignment never races. The mirror is updated only after the store confirms
// a write; a failed mutation leaves it untouched.
type DataContext struct {
	store Store
	blobs BlobStore
	geo   GeolocationProvider
	maps  MapSnapshotter
	cache *SnapshotCache
	mail  func(to []string, subject, html string) error
	log   *logrus.Logger
	now   func() time.Time

	mu        sync.Mutex // single-writer queue, also guards reads
	users     []models.User
	projects  []models.Project
	tasks     []models.Task
	timeLogs  []models.TimeLog
	estimates []models.Estimate
	expenses  []models.Expense
	invoices  []models.Invoice
	inventory []models.InventoryItem

	// High-water mark per id namespace. Next id is max(existing)+1 and is
	// never reused after a deletion.
	lastID map[string]int
}

func NewDataContext(store Store, log *logrus.Logger) *DataContext {
	if log == nil {
		log = logrus.New()
	}
	return &DataContext{
		store:  store,
		log:    log,
		now:    time.Now,
		lastID: make(map[string]int),
	}
}

// SetBlobStore wires the binary payload boundary (photos, map snapshots).
func (d *DataContext) SetBlobStore(b BlobStore) { d.blobs = b }

// SetGeolocation wires the best-effort location and map snapshot providers.
func (d *DataContext) SetGeolocation(geo GeolocationProvider, maps MapSnapshotter) {
	d.geo = geo
	d.maps = maps
}

// SetSnapshotCache wires the optional redis mirror snapshot cache.
func (d *DataContext) SetSnapshotCache(c *SnapshotCache) { d.cache = c }

// SetMailer wires the outbound mail sender used for invoice notifications.
func (d *DataContext) SetMailer(send func(to []string, subject, html string) error) {
	d.mail = send
}

// SetClock overrides the time source. Tests use this.
func (d *DataContext) SetClock(now func() time.Time) { d.now = now }

func (d *DataContext) lock()   { d.mu.Lock() }
func (d *DataContext) unlock() { d.mu.Unlock() }

// Load populates the mirror from the store. A collection whose store read
// fails is recovered from the redis snapshot when one exists; otherwise the
// error propagates. When every collection is empty the bootstrap data set is
// seeded so a first run has something to show.
func (d *DataContext) Load(ctx context.Context) error {
	d.lock()
	defer d.unlock()

	var err error
	if d.users, err = loadCollection(ctx, d, "users", d.store.ListUsers); err != nil {
		return err
	}
	if d.projects, err = loadCollection(ctx, d, "projects", d.store.ListProjects); err != nil {
		return err
	}
	if d.tasks, err = loadCollection(ctx, d, "tasks", d.store.ListTasks); err != nil {
		return err
	}
	if d.timeLogs, err = loadCollection(ctx, d, "time_logs", d.store.ListTimeLogs); err != nil {
		return err
	}
	if d.estimates, err = loadCollection(ctx, d, "estimates", d.store.ListEstimates); err != nil {
		return err
	}
	if d.expenses, err = loadCollection(ctx, d, "expenses", d.store.ListExpenses); err != nil {
		return err
	}
	if d.invoices, err = loadCollection(ctx, d, "invoices", d.store.ListInvoices); err != nil {
		return err
	}
	if d.inventory, err = loadCollection(ctx, d, "inventory", d.store.ListInventory); err != nil {
		return err
	}

	if d.empty() {
		if err := d.seedLocked(ctx); err != nil {
			return err
		}
	}
	d.initIDMarks()
	return nil
}

func loadCollection[T any](ctx context.Context, d *DataContext, name string, list func(context.Context) ([]T, error)) ([]T, error) {
	rows, err := list(ctx)
	if err == nil {
		if rows == nil {
			rows = []T{}
		}
		return rows, nil
	}
	var cached []T
	ok, cacheErr := d.cache.Load(ctx, name, &cached)
	if cacheErr != nil {
		d.log.WithFields(logrus.Fields{"collection": name}).Warnf("snapshot load failed: %v", cacheErr)
	}
	if ok {
		d.log.WithFields(logrus.Fields{"collection": name}).Warnf("store read failed, serving cached snapshot: %v", err)
		return cached, nil
	}
	return nil, err
}

func (d *DataContext) empty() bool {
	return len(d.users) == 0 && len(d.projects) == 0 && len(d.tasks) == 0 &&
		len(d.timeLogs) == 0 && len(d.estimates) == 0 && len(d.expenses) == 0 &&
		len(d.invoices) == 0 && len(d.inventory) == 0
}

func (d *DataContext) initIDMarks() {
	mark := func(name string, max int) {
		if d.lastID[name] < max {
			d.lastID[name] = max
		}
	}
	for _, u := range d.users {
		mark("user", u.UserID)
	}
	for _, p := range d.projects {
		mark("project", p.ProjectID)
		for _, item := range p.PunchList {
			mark("punch_item", item.ItemID)
		}
	}
	for _, t := range d.tasks {
		mark("task", t.TaskID)
	}
	for _, l := range d.timeLogs {
		mark("time_log", l.TimeLogID)
	}
	for _, e := range d.estimates {
		mark("estimate", e.EstimateID)
	}
	for _, e := range d.expenses {
		mark("expense", e.ExpenseID)
	}
	for _, i := range d.invoices {
		mark("invoice", i.InvoiceID)
	}
	for _, i := range d.inventory {
		mark("inventory_item", i.ItemID)
	}
}

// peekID returns the id the next created entity will get. The mark is only
// advanced by commitID after the store confirms the create, so a failed write
// does not leave a hole.
func (d *DataContext) peekID(name string) int {
	return d.lastID[name] + 1
}

func (d *DataContext) commitID(name string, id int) {
	if d.lastID[name] < id {
		d.lastID[name] = id
	}
}

// saveSnapshot pushes a collection to the redis cache, best-effort.
func (d *DataContext) saveSnapshot(ctx context.Context, name string, v interface{}) {
	if err := d.cache.Save(ctx, name, v); err != nil {
		d.log.WithFields(logrus.Fields{"collection": name}).Warnf("snapshot save failed: %v", err)
	}
}

// ---- internal lookups (caller holds the lock) ----

func (d *DataContext) findUser(id int) *models.User {
	for i := range d.users {
		if d.users[i].UserID == id {
			return &d.users[i]
		}
	}
	return nil
}

func (d *DataContext) findProject(id int) *models.Project {
	for i := range d.projects {
		if d.projects[i].ProjectID == id {
			return &d.projects[i]
		}
	}
	return nil
}

func (d *DataContext) findTask(id int) *models.Task {
	for i := range d.tasks {
		if d.tasks[i].TaskID == id {
			return &d.tasks[i]
		}
	}
	return nil
}

func (d *DataContext) findTimeLog(id int) *models.TimeLog {
	for i := range d.timeLogs {
		if d.timeLogs[i].TimeLogID == id {
			return &d.timeLogs[i]
		}
	}
	return nil
}

func (d *DataContext) findOpenTimeLog(userID int) *models.TimeLog {
	for i := range d.timeLogs {
		if d.timeLogs[i].UserID == userID && d.timeLogs[i].IsOpen() {
			return &d.timeLogs[i]
		}
	}
	return nil
}

func (d *DataContext) findEstimate(id int) *models.Estimate {
	for i := range d.estimates {
		if d.estimates[i].EstimateID == id {
			return &d.estimates[i]
		}
	}
	return nil
}

func (d *DataContext) findInvoice(id int) *models.Invoice {
	for i := range d.invoices {
		if d.invoices[i].InvoiceID == id {
			return &d.invoices[i]
		}
	}
	return nil
}

func (d *DataContext) findInventoryItem(id int) *models.InventoryItem {
	for i := range d.inventory {
		if d.inventory[i].ItemID == id {
			return &d.inventory[i]
		}
	}
	return nil
}

// ---- read API (copies; safe for any caller) ----

// Users returns the user collection ordered by id.
func (d *DataContext) Users() []models.User {
	d.lock()
	defer d.unlock()
	return append([]models.User(nil), d.users...)
}

// UserByID returns one user, or a NotFoundError.
func (d *DataContext) UserByID(id int) (models.User, error) {
	d.lock()
	defer d.unlock()
	u := d.findUser(id)
	if u == nil {
		return models.User{}, notFound("user", id)
	}
	return *u, nil
}

// UserByEmail returns one user by email; ok is false when absent.
func (d *DataContext) UserByEmail(email string) (models.User, bool) {
	d.lock()
	defer d.unlock()
	for _, u := range d.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// Projects returns the project collection ordered by id.
func (d *DataContext) Projects() []models.Project {
	d.lock()
	defer d.unlock()
	out := make([]models.Project, len(d.projects))
	for i, p := range d.projects {
		out[i] = cloneProject(p)
	}
	return out
}

// ProjectByID returns one project, or a NotFoundError.
func (d *DataContext) ProjectByID(id int) (models.Project, error) {
	d.lock()
	defer d.unlock()
	p := d.findProject(id)
	if p == nil {
		return models.Project{}, notFound("project", id)
	}
	return cloneProject(*p), nil
}

// Tasks returns the task collection ordered by id.
func (d *DataContext) Tasks() []models.Task {
	d.lock()
	defer d.unlock()
	return append([]models.Task(nil), d.tasks...)
}

// TimeLogs returns every time log in descending clock-in order. The ordering
// is part of the read contract, not an artifact of insert order.
func (d *DataContext) TimeLogs() []models.TimeLog {
	d.lock()
	defer d.unlock()
	out := make([]models.TimeLog, len(d.timeLogs))
	for i, l := range d.timeLogs {
		out[i] = cloneTimeLog(l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClockIn.After(out[j].ClockIn) })
	return out
}

// Estimates returns the estimate collection ordered by id.
func (d *DataContext) Estimates() []models.Estimate {
	d.lock()
	defer d.unlock()
	out := make([]models.Estimate, len(d.estimates))
	for i, e := range d.estimates {
		out[i] = e
		out[i].Items = append(models.EstimateItems(nil), e.Items...)
	}
	return out
}

// Expenses returns the expense collection ordered by id.
func (d *DataContext) Expenses() []models.Expense {
	d.lock()
	defer d.unlock()
	return append([]models.Expense(nil), d.expenses...)
}

// Invoices returns the invoice collection ordered by id.
func (d *DataContext) Invoices() []models.Invoice {
	d.lock()
	defer d.unlock()
	out := make([]models.Invoice, len(d.invoices))
	for i, inv := range d.invoices {
		out[i] = cloneInvoice(inv)
	}
	return out
}

// Inventory returns the inventory collection ordered by id.
func (d *DataContext) Inventory() []models.InventoryItem {
	d.lock()
	defer d.unlock()
	out := make([]models.InventoryItem, len(d.inventory))
	for i, item := range d.inventory {
		out[i] = item
		if item.LowStockThreshold != nil {
			v := *item.LowStockThreshold
			out[i].LowStockThreshold = &v
		}
	}
	return out
}

// DataSnapshot is a stable read-only copy of every collection, taken under
// one lock acquisition. Report and invoice rendering read from this.
type DataSnapshot struct {
	Users     []models.User          `json:"users"`
	Projects  []models.Project       `json:"projects"`
	Tasks     []models.Task          `json:"tasks"`
	TimeLogs  []models.TimeLog       `json:"time_logs"`
	Estimates []models.Estimate      `json:"estimates"`
	Expenses  []models.Expense       `json:"expenses"`
	Invoices  []models.Invoice       `json:"invoices"`
	Inventory []models.InventoryItem `json:"inventory"`
}

// Snapshot returns a consistent deep copy of the whole mirror.
func (d *DataContext) Snapshot() DataSnapshot {
	d.lock()
	snap := DataSnapshot{
		Users:     append([]models.User(nil), d.users...),
		Tasks:     append([]models.Task(nil), d.tasks...),
		Expenses:  append([]models.Expense(nil), d.expenses...),
		Inventory: append([]models.InventoryItem(nil), d.inventory...),
	}
	snap.Projects = make([]models.Project, len(d.projects))
	for i, p := range d.projects {
		snap.Projects[i] = cloneProject(p)
	}
	snap.TimeLogs = make([]models.TimeLog, len(d.timeLogs))
	for i, l := range d.timeLogs {
		snap.TimeLogs[i] = cloneTimeLog(l)
	}
	snap.Estimates = make([]models.Estimate, len(d.estimates))
	for i, e := range d.estimates {
		snap.Estimates[i] = e
		snap.Estimates[i].Items = append(models.EstimateItems(nil), e.Items...)
	}
	snap.Invoices = make([]models.Invoice, len(d.invoices))
	for i, inv := range d.invoices {
		snap.Invoices[i] = cloneInvoice(inv)
	}
	d.unlock()

	sort.SliceStable(snap.TimeLogs, func(i, j int) bool {
		return snap.TimeLogs[i].ClockIn.After(snap.TimeLogs[j].ClockIn)
	})
	return snap
}

// ---- clone helpers ----

func cloneProject(p models.Project) models.Project {
	out := p
	out.PunchList = make(models.PunchList, len(p.PunchList))
	for i, item := range p.PunchList {
		out.PunchList[i] = item
		if item.Photo != nil {
			photo := *item.Photo
			out.PunchList[i].Photo = &photo
		}
	}
	out.Photos = append(models.PhotoList(nil), p.Photos...)
	return out
}

func cloneTimeLog(l models.TimeLog) models.TimeLog {
	out := l
	if l.ClockOut != nil {
		v := *l.ClockOut
		out.ClockOut = &v
	}
	if l.DurationMs != nil {
		v := *l.DurationMs
		out.DurationMs = &v
	}
	if l.Cost != nil {
		v := *l.Cost
		out.Cost = &v
	}
	if l.ClockInCoords != nil {
		v := *l.ClockInCoords
		out.ClockInCoords = &v
	}
	if l.ClockOutCoords != nil {
		v := *l.ClockOutCoords
		out.ClockOutCoords = &v
	}
	if l.InvoiceID != nil {
		v := *l.InvoiceID
		out.InvoiceID = &v
	}
	return out
}

func cloneInvoice(inv models.Invoice) models.Invoice {
	out := inv
	out.LineItems = make(models.InvoiceLineItems, len(inv.LineItems))
	for i, line := range inv.LineItems {
		out.LineItems[i] = line
		out.LineItems[i].TimeLogIDs = append([]int(nil), line.TimeLogIDs...)
	}
	return out
}
