package main

import "database/sql"

// pageExists reports whether title has a row in PAGES — i.e. whether
// it was seen as the <title> of a namespace-0, non-redirect page.
func (s *Store) pageExists(title string) (bool, error) {
	_, ok, err := s.pageID(title)
	return ok, err
}

// pageID looks up the PAGES.id for title. The boolean result is false
// when no such page exists.
func (s *Store) pageID(title string) (PageID, bool, error) {
	var id PageID
	err := s.pageIDQuery.QueryRow(title).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// redirectOf looks up the target of a redirect stub by its origin
// title. The boolean result is false when title is not a redirect.
func (s *Store) redirectOf(title string) (string, bool, error) {
	var target string
	err := s.redirectQuery.QueryRow(title).Scan(&target)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return target, true, nil
}

// outLinks returns the raw, unresolved link_title values LINKS carries
// for the page with the given id. Entries may be dangling: a
// link_title with no corresponding PAGES row and no REDIRECTS entry.
func (s *Store) outLinks(id PageID) ([]string, error) {
	rows, err := s.outLinksQuery.Query(id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// languageCodes reads back the seeded LANGUAGE_CODES table as a
// code->name map, for callers that only have an already-open store
// (e.g. tests asserting the etymology extractor against the seed that
// was actually loaded).
func (s *Store) languageCodes() (map[string]string, error) {
	rows, err := s.languagesQuery.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := map[string]string{}
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, err
		}
		codes[code] = name
	}
	return codes, rows.Err()
}
