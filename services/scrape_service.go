package services

import (
	"MenuScout/config/environment"
	"MenuScout/models"
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// pipelineState tracks where a scrape run is. Transitions only move forward;
// stateFailed is reachable from anywhere but only navigation failures take it.
type pipelineState int

const (
	stateLoading pipelineState = iota
	statePayloadParsed
	stateScrollCollecting
	stateMerging
	stateDone
	stateFailed
)

func (s pipelineState) String() string {
	switch s {
	case stateLoading:
		return "Loading"
	case statePayloadParsed:
		return "PayloadParsed"
	case stateScrollCollecting:
		return "ScrollCollecting"
	case stateMerging:
		return "Merging"
	case stateDone:
		return "Done"
	default:
		return "Failed"
	}
}

// runState is the per-request accumulator. Each pipeline instance owns its
// own copy; nothing is shared between concurrent scrape requests.
type runState struct {
	seen    map[string]struct{}
	details []models.ItemDetail
}

func newRunState() *runState {
	return &runState{seen: map[string]struct{}{}}
}

// ScrapeService runs the end-to-end menu pipeline for one URL at a time.
type ScrapeService struct {
	newSession        SessionFactory
	navigationSettle  time.Duration
	interactionSettle time.Duration
	waitTimeout       time.Duration
	pollInterval      time.Duration
}

// NewScrapeService wires the service against a real headless browser.
func NewScrapeService() *ScrapeService {
	return &ScrapeService{
		newSession:        NewBrowserSession,
		navigationSettle:  environment.GetNavigationSettle(),
		interactionSettle: environment.GetInteractionSettle(),
		waitTimeout:       environment.GetWaitTimeout(),
		pollInterval:      2 * time.Second,
	}
}

// NewScrapeServiceWithFactory is the test seam: the factory decides what kind
// of page the pipeline talks to, and the timings can be shrunk to nothing.
func NewScrapeServiceWithFactory(factory SessionFactory, settle, waitTimeout time.Duration) *ScrapeService {
	return &ScrapeService{
		newSession:        factory,
		navigationSettle:  settle,
		interactionSettle: settle,
		waitTimeout:       waitTimeout,
		pollInterval:      time.Millisecond,
	}
}

// ScrapeMenu runs the full pipeline for one menu URL. Only a navigation
// failure is fatal; every other problem degrades to a sparser menu. The
// caller always gets a well-formed Menu back when err is nil.
func (s *ScrapeService) ScrapeMenu(ctx context.Context, platform Platform, url, menuID string) (models.Menu, error) {
	session, err := s.newSession(ctx)
	if err != nil {
		return models.Menu{}, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer session.Close()

	state := stateLoading
	log.Printf("[%s] %s: scraping %s", platform.Name, state, url)

	if err := session.Navigate(ctx, url); err != nil {
		log.Printf("[%s] %s: navigation failed: %v", platform.Name, stateFailed, err)
		return models.Menu{}, fmt.Errorf("navigation failed: %w", err)
	}
	sleep(ctx, s.navigationSettle)

	if platform.ReloadAfterLoad {
		// Some storefronts hydrate incompletely on the first load; one
		// reload settles them.
		if err := session.Reload(ctx); err != nil {
			log.Printf("[%s] reload failed, continuing with first load: %v", platform.Name, err)
		}
		sleep(ctx, s.interactionSettle)
		s.dismissBlockingDialog(ctx, session, platform)
	}

	menu := s.parseStoreData(ctx, session, platform, "")
	menu.MenuID = menuID
	state = statePayloadParsed
	log.Printf("[%s] %s: %d categories, %d groups", platform.Name, state, len(menu.Categories), len(menu.CategoryGroups))

	state = stateScrollCollecting
	run := newRunState()
	s.collectItems(ctx, session, platform, run)

	state = stateMerging
	log.Printf("[%s] %s: reconciling %d item extractions", platform.Name, state, len(run.details))
	MergeItemDetails(&menu, run.details, platform.MergePolicy)

	state = stateDone
	log.Printf("[%s] %s", platform.Name, state)
	return menu, nil
}

// parseStoreData chains locator → sanitizer/parser → mapper. Any failure in
// the chain is logged and yields an empty skeleton; the pipeline never blocks
// on missing structured data.
func (s *ScrapeService) parseStoreData(ctx context.Context, page PageSource, platform Platform, itemFilter string) models.Menu {
	empty := models.Menu{
		OpeningHours:   []string{},
		Cuisines:       []string{},
		CategoryGroups: []string{},
		Categories:     []models.Category{},
	}

	payload, err := LocatePayload(ctx, page, platform, s.waitTimeout, s.pollInterval)
	if err != nil {
		log.Printf("[%s] could not locate structured payload: %v", platform.Name, err)
		return empty
	}

	tree, err := ParsePayload(payload)
	if err != nil {
		log.Printf("[%s] %v", platform.Name, err)
		return empty
	}

	return BuildMenu(platform, tree, itemFilter)
}

// collectItems is the ScrollCollecting phase with item processing interleaved
// per scroll batch. Elements are re-queried after every scroll because the
// virtualized list detaches them. The loop gives up after MaxIdleScrolls
// consecutive scrolls with no scroll-position progress.
func (s *ScrapeService) collectItems(ctx context.Context, page PageSource, platform Platform, run *runState) {
	if platform.InitialScroll > 0 {
		if err := page.ScrollBy(ctx, platform.InitialScroll); err != nil {
			log.Printf("[%s] initial scroll failed: %v", platform.Name, err)
		}
		sleep(ctx, s.interactionSettle)
	}

	previousPosition, err := page.ScrollPosition(ctx)
	if err != nil {
		log.Printf("[%s] cannot read scroll position: %v", platform.Name, err)
		return
	}
	idleScrolls := 0

	for {
		texts, err := page.NodeTexts(ctx, platform.Selectors.Item)
		if err != nil {
			log.Printf("[%s] item query failed, ending collection: %v", platform.Name, err)
			return
		}
		if len(texts) == 0 {
			log.Printf("[%s] no more items found", platform.Name)
			return
		}

		for index, text := range texts {
			s.processItem(ctx, page, platform, run, index, text)
		}

		if err := page.ScrollBy(ctx, platform.ScrollStep); err != nil {
			log.Printf("[%s] scroll failed, ending collection: %v", platform.Name, err)
			return
		}
		sleep(ctx, s.pollInterval)

		position, err := page.ScrollPosition(ctx)
		if err != nil {
			log.Printf("[%s] cannot read scroll position: %v", platform.Name, err)
			return
		}
		if position > previousPosition {
			previousPosition = position
			idleScrolls = 0
			continue
		}
		idleScrolls++
		if idleScrolls >= platform.MaxIdleScrolls {
			log.Printf("[%s] no new items after %d scrolls, ending collection", platform.Name, idleScrolls)
			return
		}
	}
}

// processItem opens one item's detail overlay, captures it, and records the
// extraction. Items are deduplicated by display text; the item is marked
// processed before the interaction so a broken overlay cannot cause an
// infinite retry loop. A single item failing never aborts the batch.
func (s *ScrapeService) processItem(ctx context.Context, page PageSource, platform Platform, run *runState, index int, text string) {
	key := strings.TrimSpace(text)
	if key == "" {
		return
	}
	if _, done := run.seen[key]; done {
		return
	}
	run.seen[key] = struct{}{}

	if err := page.ClickNth(ctx, platform.Selectors.Item, index); err != nil {
		log.Printf("[%s] could not click item %q: %v", platform.Name, key, err)
		return
	}

	if err := page.WaitVisible(ctx, platform.Selectors.Overlay, s.waitTimeout); err != nil {
		log.Printf("[%s] detail overlay never appeared for %q: %v", platform.Name, key, err)
		return
	}
	sleep(ctx, s.interactionSettle)

	if html, err := page.OuterHTML(ctx, platform.Selectors.Overlay); err != nil {
		log.Printf("[%s] could not capture overlay for %q: %v", platform.Name, key, err)
	} else if detail, err := ParseItemDetail(platform, html); err != nil {
		log.Printf("[%s] could not parse overlay for %q: %v", platform.Name, key, err)
	} else if detail.ItemName != "" || len(detail.Groups) > 0 {
		run.details = append(run.details, detail)
		log.Printf("[%s] extracted %d groups for %q", platform.Name, len(detail.Groups), detail.ItemName)
	}

	s.dismissOverlay(ctx, page, platform)
}

// dismissOverlay tries the platform's close controls in order. Failing to
// close is logged and the batch continues; the item already counts as
// processed.
func (s *ScrapeService) dismissOverlay(ctx context.Context, page PageSource, platform Platform) {
	for _, closeSelector := range platform.Selectors.Close {
		if err := page.Click(ctx, closeSelector); err != nil {
			continue
		}
		if err := page.WaitHidden(ctx, platform.Selectors.Overlay, s.waitTimeout); err != nil {
			log.Printf("[%s] overlay still visible after close: %v", platform.Name, err)
		}
		sleep(ctx, s.interactionSettle)
		return
	}
	log.Printf("[%s] no close control found, continuing", platform.Name)
}

// dismissBlockingDialog closes the address/promo popups some storefronts put
// over the menu. Best effort only.
func (s *ScrapeService) dismissBlockingDialog(ctx context.Context, page PageSource, platform Platform) {
	if platform.Selectors.Dialog == "" {
		return
	}
	if err := page.WaitVisible(ctx, platform.Selectors.Dialog, s.interactionSettle); err != nil {
		return
	}
	s.dismissOverlay(ctx, page, platform)
}

// ScrapeAndOrder is the order-and-customize variant: map only the named item,
// hunt it down on the live page, tick the requested options in its overlay,
// add it to the cart, and return the filtered menu carrying the selected
// customizations.
func (s *ScrapeService) ScrapeAndOrder(ctx context.Context, platform Platform, url, menuID, itemName string, selectedItems []string) (models.Menu, error) {
	session, err := s.newSession(ctx)
	if err != nil {
		return models.Menu{}, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer session.Close()

	log.Printf("[%s] ordering %q from %s", platform.Name, itemName, url)
	if err := session.Navigate(ctx, url); err != nil {
		return models.Menu{}, fmt.Errorf("navigation failed: %w", err)
	}
	sleep(ctx, s.navigationSettle)

	menu := s.parseStoreData(ctx, session, platform, itemName)
	menu.MenuID = menuID

	detail, found := s.huntItem(ctx, session, platform, itemName, selectedItems)
	if found {
		MergeItemDetail(&menu, detail, MergeFillIfEmpty)
	} else {
		log.Printf("[%s] item %q never surfaced while scrolling", platform.Name, itemName)
	}

	return menu, nil
}

// huntItem scrolls until an element whose aria-label mentions the item shows
// up, then runs the overlay interaction. Bounded by the same idle-scroll
// budget as collection.
func (s *ScrapeService) huntItem(ctx context.Context, page PageSource, platform Platform, itemName string, selectedItems []string) (models.ItemDetail, bool) {
	previousPosition := -1.0
	idleScrolls := 0
	needle := strings.ToLower(itemName)

	for {
		labels, err := page.NodeAttrs(ctx, "div[aria-label]", "aria-label")
		if err != nil {
			log.Printf("[%s] aria-label query failed: %v", platform.Name, err)
			return models.ItemDetail{}, false
		}
		for index, label := range labels {
			if !strings.Contains(strings.ToLower(label), needle) {
				continue
			}
			log.Printf("[%s] item found: %s", platform.Name, label)
			return s.customizeItem(ctx, page, platform, index, selectedItems)
		}

		if err := page.ScrollBy(ctx, platform.ScrollStep); err != nil {
			return models.ItemDetail{}, false
		}
		sleep(ctx, s.pollInterval)

		position, err := page.ScrollPosition(ctx)
		if err != nil {
			return models.ItemDetail{}, false
		}
		if position > previousPosition {
			previousPosition = position
			idleScrolls = 0
			continue
		}
		idleScrolls++
		if idleScrolls >= platform.MaxIdleScrolls {
			return models.ItemDetail{}, false
		}
	}
}

func (s *ScrapeService) customizeItem(ctx context.Context, page PageSource, platform Platform, index int, selectedItems []string) (models.ItemDetail, bool) {
	if err := page.ClickNth(ctx, "div[aria-label]", index); err != nil {
		log.Printf("[%s] could not open item: %v", platform.Name, err)
		return models.ItemDetail{}, false
	}
	if err := page.WaitVisible(ctx, platform.Selectors.Overlay, s.waitTimeout); err != nil {
		log.Printf("[%s] detail overlay never appeared: %v", platform.Name, err)
		return models.ItemDetail{}, false
	}
	sleep(ctx, s.interactionSettle)

	html, err := page.OuterHTML(ctx, platform.Selectors.Overlay)
	if err != nil {
		log.Printf("[%s] could not capture overlay: %v", platform.Name, err)
		return models.ItemDetail{}, false
	}
	detail, err := ParseItemDetail(platform, html)
	if err != nil {
		log.Printf("[%s] could not parse overlay: %v", platform.Name, err)
		return models.ItemDetail{}, false
	}
	detail = filterSelectedOptions(detail, selectedItems)

	for _, selected := range selectedItems {
		if err := tickOption(ctx, page, platform, selected); err != nil {
			log.Printf("[%s] could not select option %q: %v", platform.Name, selected, err)
		}
		sleep(ctx, s.interactionSettle)
	}

	if platform.Selectors.AddToCart != "" {
		if err := page.Click(ctx, platform.Selectors.AddToCart); err != nil {
			log.Printf("[%s] add-to-cart failed: %v", platform.Name, err)
		} else {
			log.Println("Item added to cart")
		}
		sleep(ctx, s.interactionSettle)
	}
	s.dismissOverlay(ctx, page, platform)

	return detail, true
}

// tickOption clicks the checkbox inside the overlay label whose text mentions
// the option. Already-checked boxes are left alone.
func tickOption(ctx context.Context, page PageSource, platform Platform, optionName string) error {
	js := fmt.Sprintf(`(() => {
		const overlay = document.querySelector(%q);
		if (!overlay) { return false; }
		for (const label of overlay.querySelectorAll('label')) {
			if (!label.innerText.includes(%q)) { continue; }
			const box = label.querySelector('input[type="checkbox"]');
			if (!box) { continue; }
			if (!box.checked) { box.click(); }
			return true;
		}
		return false;
	})()`, platform.Selectors.Overlay, optionName)
	var ticked bool
	if err := page.Eval(ctx, js, &ticked); err != nil {
		return err
	}
	if !ticked {
		return fmt.Errorf("option %q not found in overlay", optionName)
	}
	return nil
}

// filterSelectedOptions keeps only the options the caller asked for, dropping
// groups that end up empty.
func filterSelectedOptions(detail models.ItemDetail, selectedItems []string) models.ItemDetail {
	if len(selectedItems) == 0 {
		return detail
	}
	wanted := map[string]struct{}{}
	for _, name := range selectedItems {
		wanted[name] = struct{}{}
	}

	groups := []models.CustomizationGroup{}
	for _, group := range detail.Groups {
		kept := []models.CustomizationOption{}
		for _, option := range group.Options {
			if _, ok := wanted[option.Name]; ok {
				kept = append(kept, option)
			}
		}
		if len(kept) > 0 {
			group.Options = kept
			groups = append(groups, group)
		}
	}
	detail.Groups = groups
	return detail
}

// sleep waits for d or until the context dies, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
