package database

// migration is one schema change. Versions start at 1 and are contiguous.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations lists every schema change in the order it is applied.
var migrations = []migration{
	{1, "create adoptions", migrationV1Adoptions},
	{2, "seed adoptions", migrationV2SeedAdoptions},
}

// migrationV1Adoptions creates the table of regional Gregorian adoption
// dates. first_gregorian_jdn is the Julian Day Number of the first day the
// region reckoned in the Gregorian calendar; the day before it is the last
// Old Style day.
const migrationV1Adoptions = `
CREATE TABLE IF NOT EXISTS adoptions (
	code                TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	first_gregorian_jdn INTEGER NOT NULL CHECK (first_gregorian_jdn >= 2299161),
	notes               TEXT,
	created_at          TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at          TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_adoptions_jdn ON adoptions(first_gregorian_jdn);
`

// migrationV2SeedAdoptions loads the well known adoption dates.
const migrationV2SeedAdoptions = `
INSERT OR IGNORE INTO adoptions (code, name, first_gregorian_jdn, notes) VALUES
	('it', 'Papal States', 2299161, '1582-10-15, the Reformation itself'),
	('es', 'Spain', 2299161, '1582-10-15'),
	('pt', 'Portugal', 2299161, '1582-10-15'),
	('pl', 'Poland', 2299161, '1582-10-15'),
	('fr', 'France', 2299227, '1582-12-20 followed 1582-12-09'),
	('de', 'Protestant Germany', 2342032, '1700-03-01 followed 1700-02-18'),
	('dk', 'Denmark-Norway', 2342032, '1700-03-01 followed 1700-02-18'),
	('gb', 'Great Britain and colonies', 2361222, '1752-09-14 followed 1752-09-02'),
	('se', 'Sweden', 2361390, '1753-03-01 followed 1753-02-17'),
	('bg', 'Bulgaria', 2420968, '1916-04-14 followed 1916-03-31'),
	('ru', 'Russia', 2421639, '1918-02-14 followed 1918-01-31'),
	('rs', 'Serbia', 2421987, '1919-01-28 followed 1919-01-14'),
	('ro', 'Romania', 2422063, '1919-04-14 followed 1919-03-31'),
	('gr', 'Greece', 2423480, '1923-03-01 followed 1923-02-15');
`
