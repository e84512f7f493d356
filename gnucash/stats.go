package gnucash

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	rebal "github.com/mkrall/rebal"
)

// Income and giving statistics over the whole life of the book. These
// only exist for SQLite books: the queries lean on SQL aggregation.

// AfterTaxIncome sums all income ever recorded, less everything filed
// under Expenses -> Taxes.
//
// Double-entry books record income negatively; the result is flipped to
// the positive number a human expects.
func (s *Store) AfterTaxIncome() (rebal.Money, error) {
	income, err := s.sumSplits("", "account_type = 'INCOME'")
	if err != nil {
		return rebal.Money{}, fmt.Errorf("summing income: %w", err)
	}
	taxes, err := s.sumExpenseTree("Taxes")
	if err != nil {
		return rebal.Money{}, err
	}
	return rebal.M(income.Neg().Sub(taxes)), nil
}

// CharitableGiving sums everything filed under Expenses -> Charity.
func (s *Store) CharitableGiving() (rebal.Money, error) {
	total, err := s.sumExpenseTree("Charity")
	if err != nil {
		return rebal.Money{}, err
	}
	return rebal.M(total), nil
}

// sumExpenseTree sums every split under Root -> Expenses -> <name>,
// children included.
func (s *Store) sumExpenseTree(name string) (decimal.Decimal, error) {
	guid, err := s.topLevelExpenseAccount(name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	// Guids are hex strings out of this very database, so interpolating
	// one into the CTE is safe.
	ctes := fmt.Sprintf(`
		WITH RECURSIVE
		  child_accounts(last_parent) AS (
		    VALUES('%s')
		     UNION
		    SELECT guid
		      FROM accounts, child_accounts
		     WHERE accounts.parent_guid = child_accounts.last_parent
		  )`, guid)
	total, err := s.sumSplits(ctes, "guid IN child_accounts")
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("summing Expenses -> %s: %w", name, err)
	}
	return total, nil
}

// topLevelExpenseAccount finds the guid of Root -> Expenses -> <name>.
func (s *Store) topLevelExpenseAccount(name string) (string, error) {
	var guid string
	err := s.db.QueryRow(`
		WITH root_account AS (
		  SELECT guid
		    FROM accounts
		   WHERE name = 'Root Account'
		     AND account_type = 'ROOT'
		), root_expenses AS (
		  SELECT guid
		    FROM accounts
		   WHERE name = 'Expenses'
		     AND account_type = 'EXPENSE'
		     AND parent_guid = (SELECT guid FROM root_account)
		)
		SELECT guid
		  FROM accounts
		 WHERE name = ?
		   AND account_type = 'EXPENSE'
		   AND parent_guid = (SELECT guid FROM root_expenses)`, name).Scan(&guid)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("this book has no Expenses -> %s account", name)
	}
	if err != nil {
		return "", err
	}
	return guid, nil
}

// sumSplits adds the values of every split in the matching accounts.
// ctes, when non-empty, is placed before the SELECT; whereClause filters
// the accounts table.
func (s *Store) sumSplits(ctes, whereClause string) (decimal.Decimal, error) {
	rows, err := s.db.Query(ctes + `
		SELECT value_num, value_denom
		  FROM splits
		 WHERE account_guid IN
		       (SELECT guid FROM accounts WHERE ` + whereClause + `)`)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var num, denom int64
		if err := rows.Scan(&num, &denom); err != nil {
			return decimal.Decimal{}, err
		}
		value, err := fracValue(num, denom)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(value)
	}
	return total, rows.Err()
}
