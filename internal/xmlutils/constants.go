package xmlutils

import "gopkg.in/xmlpath.v2"

// CAMT053 holds the compiled paths used to read CAMT.053 statements. Entry
// paths are relative to an Ntry node, statement paths to a Stmt node.
type CAMT053 struct {
	Statements *xmlpath.Path

	Statement struct {
		IBAN    *xmlpath.Path
		OtherID *xmlpath.Path
		Entries *xmlpath.Path
	}

	Entry struct {
		Amount         *xmlpath.Path
		CreditDebitInd *xmlpath.Path
		BookingDate    *xmlpath.Path
		BookingDateTm  *xmlpath.Path
		ValueDate      *xmlpath.Path
		AccountSvcRef  *xmlpath.Path
		AddEntryInfo   *xmlpath.Path
	}

	Details struct {
		EndToEndID    *xmlpath.Path
		TransactionID *xmlpath.Path
		Remittance    *xmlpath.Path
		AdditionalTx  *xmlpath.Path
		DebtorName    *xmlpath.Path
		CreditorName  *xmlpath.Path
	}
}

// DefaultCamt053XPaths returns the paths for camt.053.001.x documents.
func DefaultCamt053XPaths() CAMT053 {
	var c CAMT053
	c.Statements = xmlpath.MustCompile("//BkToCstmrStmt/Stmt")

	c.Statement.IBAN = xmlpath.MustCompile("Acct/Id/IBAN")
	c.Statement.OtherID = xmlpath.MustCompile("Acct/Id/Othr/Id")
	c.Statement.Entries = xmlpath.MustCompile("Ntry")

	c.Entry.Amount = xmlpath.MustCompile("Amt")
	c.Entry.CreditDebitInd = xmlpath.MustCompile("CdtDbtInd")
	c.Entry.BookingDate = xmlpath.MustCompile("BookgDt/Dt")
	c.Entry.BookingDateTm = xmlpath.MustCompile("BookgDt/DtTm")
	c.Entry.ValueDate = xmlpath.MustCompile("ValDt/Dt")
	c.Entry.AccountSvcRef = xmlpath.MustCompile("AcctSvcrRef")
	c.Entry.AddEntryInfo = xmlpath.MustCompile("AddtlNtryInf")

	c.Details.EndToEndID = xmlpath.MustCompile("NtryDtls/TxDtls/Refs/EndToEndId")
	c.Details.TransactionID = xmlpath.MustCompile("NtryDtls/TxDtls/Refs/TxId")
	c.Details.Remittance = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	c.Details.AdditionalTx = xmlpath.MustCompile("NtryDtls/TxDtls/AddtlTxInf")
	c.Details.DebtorName = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	c.Details.CreditorName = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Cdtr/Nm")
	return c
}
