package service

import "github.com/set-night/gratax/internal/domain"

// KnowledgeEntry is one canned answer of the demo responder, found by its key
// phrase and keywords.
type KnowledgeEntry struct {
	Key      string
	Answer   string
	Citation domain.Citation
	Keywords []string
}

// DefaultKnowledgeBase returns the built-in table. Order matters: on equal
// scores the earlier entry wins.
func DefaultKnowledgeBase() []KnowledgeEntry {
	return []KnowledgeEntry{
		// VAT
		{
			Key:    "vat rate",
			Answer: "The standard VAT rate in Ghana is 15% (comprising 12.5% VAT and 2.5% NHIL/GETFund levies). This applies to most goods and services unless specifically exempted or zero-rated.",
			Citation: domain.Citation{
				Document: "Value Added Tax Act, 2013 (Act 870)",
				Section:  "Section 3",
				Excerpt:  "There is imposed a tax to be known as value added tax on the supply of goods and services and the importation of goods at the rate of twelve and a half percent of the value of the supply or importation.",
				Page:     5,
			},
			Keywords: []string{"vat", "rate", "percent", "15", "12.5", "tax rate"},
		},
		{
			Key:    "vat registration",
			Answer: "You must register for VAT if your annual taxable turnover exceeds GH₵200,000. You can also voluntarily register if your turnover is below this threshold. Registration can be done at any GRA office or online at the GRA portal.",
			Citation: domain.Citation{
				Document: "Value Added Tax Act, 2013 (Act 870)",
				Section:  "Section 6(1)",
				Excerpt:  "A person who makes taxable supplies and whose taxable turnover during any period of twelve months exceeds the threshold is required to apply for registration.",
				Page:     8,
			},
			Keywords: []string{"register", "registration", "vat", "threshold", "200000", "turnover"},
		},
		{
			Key:    "food exempt",
			Answer: "Yes, basic food items are exempt from VAT! This includes unprocessed cereals (rice, maize, millet), tubers (yam, cassava, cocoyam), fresh fruits and vegetables, and fresh fish. However, processed or packaged foods may be subject to VAT.",
			Citation: domain.Citation{
				Document: "Value Added Tax Act, 2013 (Act 870)",
				Section:  "First Schedule - Exempt Supplies",
				Excerpt:  "The following supplies of goods are exempt from VAT: (a) agricultural products in their raw state including cereals, tubers, fruits, vegetables, groundnuts, and palm produce...",
				Page:     42,
			},
			Keywords: []string{"food", "exempt", "exemption", "rice", "yam", "fish", "vegetables"},
		},
		{
			Key:    "export vat",
			Answer: "Great news for exporters! Exported goods, including cocoa, are zero-rated for VAT purposes. This means you don't charge VAT on exports, but you can still claim input VAT credits on your business expenses.",
			Citation: domain.Citation{
				Document: "Value Added Tax Act, 2013 (Act 870)",
				Section:  "Section 15(1)(a)",
				Excerpt:  "The following supplies of goods or services are zero-rated: (a) the export of goods or services;",
				Page:     12,
			},
			Keywords: []string{"export", "zero", "rated", "cocoa", "goods"},
		},

		// E-Levy
		{
			Key:    "e-levy",
			Answer: "E-Levy (Electronic Transfer Levy) is a tax on electronic transactions in Ghana. The current rate is 1% on transfers above GH₵100 per day. It applies to mobile money transfers, bank transfers, and other electronic payments.",
			Citation: domain.Citation{
				Document: "Electronic Transfer Levy Act, 2022 (Act 1075)",
				Section:  "Section 1",
				Excerpt:  "There is imposed on the transfer of money by electronic means a levy to be known as the Electronic Transfer Levy.",
				Page:     1,
			},
			Keywords: []string{"e-levy", "elevy", "electronic", "transfer", "levy", "mobile money"},
		},
		{
			Key:    "e-levy rate",
			Answer: "The E-Levy rate is currently 1% on electronic transfers above GH₵100 per day. Transfers of GH₵100 or below per day are exempt from the levy.",
			Citation: domain.Citation{
				Document: "Electronic Transfer Levy Act, 2022 (Act 1075) as amended",
				Section:  "Section 2",
				Excerpt:  "The rate of the levy imposed under section 1 is one percent of the value of the electronic transfer above the threshold.",
				Page:     2,
			},
			Keywords: []string{"e-levy", "rate", "percent", "1%", "momo", "mobile"},
		},
		{
			Key:    "e-levy exempt",
			Answer: "Several transfers are exempt from E-Levy:\n• Transfers of GH₵100 or less per day\n• Cumulative transfers up to GH₵100 daily\n• Transfers for payment of taxes\n• Transfers between accounts of the same person\n• Transfers for payment of social security contributions",
			Citation: domain.Citation{
				Document: "Electronic Transfer Levy Act, 2022 (Act 1075)",
				Section:  "Section 4",
				Excerpt:  "The following electronic transfers are exempt from the levy: (a) transfers of one hundred Ghana cedis or less per day...",
				Page:     3,
			},
			Keywords: []string{"e-levy", "exempt", "exemption", "free"},
		},

		// Income tax
		{
			Key:    "income tax bands",
			Answer: "Ghana uses a graduated income tax system:\n• First GH₵4,380: 0%\n• Next GH₵1,320: 5%\n• Next GH₵1,560: 10%\n• Next GH₵36,000: 17.5%\n• Next GH₵196,740: 25%\n• Above GH₵240,000: 30%\n\nThese are annual figures. Monthly PAYE is calculated proportionally.",
			Citation: domain.Citation{
				Document: "Income Tax Act, 2015 (Act 896) - First Schedule",
				Section:  "First Schedule - Tax Rates",
				Excerpt:  "The rates of income tax for resident individuals are as specified in the table...",
				Page:     89,
			},
			Keywords: []string{"income", "tax", "bands", "rates", "paye", "salary"},
		},
		{
			Key:    "file returns",
			Answer: "Annual tax returns must be filed by April 30th each year for the previous tax year. You can file:\n• Online via the GRA Taxpayer Portal (taxpayersportal.com)\n• At any GRA office\n• Through a registered tax agent\n\nLate filing attracts penalties, so file on time!",
			Citation: domain.Citation{
				Document: "Income Tax Act, 2015 (Act 896)",
				Section:  "Section 124",
				Excerpt:  "A person who is required to file a return shall file the return not later than four months after the end of the basis period.",
				Page:     78,
			},
			Keywords: []string{"file", "returns", "annual", "deadline", "april"},
		},

		// TIN
		{
			Key:    "tin",
			Answer: "A TIN (Taxpayer Identification Number) is a unique 11-digit number that identifies you for all tax purposes in Ghana. To get a TIN:\n\n1. Visit any GRA office or go online\n2. Complete the TIN registration form\n3. Provide: Ghana Card/Passport, proof of residence\n4. For businesses: add certificate of registration\n\nIt's FREE and takes about 2-3 working days!",
			Citation: domain.Citation{
				Document: "Revenue Administration Act, 2016 (Act 915)",
				Section:  "Section 10",
				Excerpt:  "The Commissioner-General shall assign a taxpayer identification number to each person who is required to file a return or pay tax.",
				Page:     12,
			},
			Keywords: []string{"tin", "taxpayer", "identification", "number", "register"},
		},
		{
			Key:    "business registration",
			Answer: "To register your business with GRA, you'll need:\n\n1. Certificate of Incorporation/Registration from Registrar General\n2. TIN of the business and directors\n3. Business commencement form\n4. Bank details\n5. Ghana Card of directors/owners\n6. Proof of business location\n\nVisit any GRA office or register online at gra.gov.gh",
			Citation: domain.Citation{
				Document: "Revenue Administration Act, 2016 (Act 915)",
				Section:  "Section 15",
				Excerpt:  "A person required to pay tax shall register with the Commissioner-General within the time and in the manner prescribed.",
				Page:     15,
			},
			Keywords: []string{"business", "register", "registration", "documents", "company"},
		},
	}
}
