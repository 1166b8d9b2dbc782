package service

import (
	"fmt"
	"strings"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Closing suggestion appended after the variance verdict, keyed by task status
var statusFollowUps = map[domain.Status]string{
	domain.StatusSelesai:      " Hasil evaluasi tugas ini dapat menjadi pelajaran berharga untuk perencanaan proyek selanjutnya.",
	domain.StatusInProgress:   " Pantau sisa anggaran dengan cermat untuk memastikan tidak ada pembengkakan biaya lebih lanjut hingga tugas selesai.",
	domain.StatusNeedApproval: " Jika ada perubahan anggaran yang diperlukan akibat defisit, segera proses persetujuan agar tidak menghambat kelancaran tugas.",
	domain.StatusPending:      " Pastikan anggaran yang ada masih relevan dengan kondisi saat ini sebelum memulai tugas.",
}

// Suggestion for a budgeted task with nothing spent yet
var unspentSuggestions = map[domain.Status]string{
	domain.StatusSelesai:    "Tugas telah selesai namun biaya belum dilaporkan. Segera lengkapi laporan realisasi biaya untuk evaluasi akhir.",
	domain.StatusInProgress: "Tugas sedang berjalan. Lakukan pembaruan laporan biaya secara berkala seiring adanya pengeluaran.",
}

const defaultUnspentSuggestion = "Laporan realisasi biaya belum dibuat. Segera catat dan laporkan biaya setelah ada pengeluaran pertama."

type verdict struct {
	status     string
	commentary string
	suggestion string
}

var verdicts = map[domain.VarianceLabel]verdict{
	domain.LabelSurplus: {
		status:     "hemat biaya",
		commentary: "Kinerja biaya untuk tugas ini sangat baik, berhasil menghemat anggaran.",
		suggestion: "Pertahankan efisiensi ini. Strategi penghematan yang diterapkan bisa menjadi contoh untuk tugas-tugas lainnya.",
	},
	domain.LabelOnBudget: {
		status:     "sesuai anggaran",
		commentary: "Realisasi biaya sudah tepat sesuai dengan perencanaan.",
		suggestion: "Penyusunan dan kontrol anggaran sudah baik. Terus pantau realisasi agar tetap sesuai rencana.",
	},
	domain.LabelDeficit: {
		status:     "melebihi anggaran (defisit)",
		commentary: "Perlu perhatian lebih pada manajemen biaya untuk tugas ini karena terjadi pembengkakan.",
		suggestion: "Lakukan evaluasi pada rincian biaya yang membengkak untuk menemukan potensi efisiensi pada perencanaan tugas serupa di masa depan.",
	},
}

// AnnualNarrative describes a year of (already filtered) summary rows: totals, the resulting
// surplus or deficit, the peak budget and peak spend months, and a closing recommendation.
// Peaks are found with a strict greater-than scan from zero, so ties go to the earlier month
// and a peak of zero is not mentioned.
func AnnualNarrative(year int, rows []domain.SummaryRow) string {
	totalBudget := decimal.Zero
	totalExpense := decimal.Zero
	for _, row := range rows {
		totalBudget = totalBudget.Add(row.TotalBudget)
		totalExpense = totalExpense.Add(row.TotalExpense)
	}
	variance := totalBudget.Sub(totalExpense)

	if totalBudget.IsZero() && totalExpense.IsZero() {
		return fmt.Sprintf("Tidak ada data anggaran atau biaya untuk tahun %d berdasarkan filter yang dipilih.", year)
	}

	peakBudgetMonth, peakBudget := "-", decimal.Zero
	peakSpendMonth, peakSpend := "-", decimal.Zero
	for _, row := range rows {
		if row.TotalBudget.GreaterThan(peakBudget) {
			peakBudgetMonth, peakBudget = row.Month, row.TotalBudget
		}
		if row.TotalExpense.GreaterThan(peakSpend) {
			peakSpendMonth, peakSpend = row.Month, row.TotalExpense
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Untuk tahun %d, total anggaran yang direncanakan adalah %s dengan realisasi biaya sebesar %s. Hal ini menghasilkan %s sebesar %s.",
		year, FormatCurrency(totalBudget), FormatCurrency(totalExpense), balanceWord(variance), FormatCurrency(variance.Abs()))
	if peakBudget.IsPositive() {
		fmt.Fprintf(&b, " Bulan dengan alokasi anggaran tertinggi adalah %s (%s).", peakBudgetMonth, FormatCurrency(peakBudget))
	}
	if peakSpend.IsPositive() {
		fmt.Fprintf(&b, " Realisasi biaya tertinggi terjadi pada bulan %s (%s).", peakSpendMonth, FormatCurrency(peakSpend))
	}

	if variance.IsNegative() {
		b.WriteString("\n\nKesimpulan Tahunan: Secara keseluruhan, disarankan untuk melakukan evaluasi anggaran tahunan, terutama pada bulan-bulan dengan defisit tertinggi, untuk meningkatkan kontrol biaya di masa mendatang.")
	} else {
		b.WriteString("\n\nKesimpulan Tahunan: Kinerja anggaran tahunan secara umum sudah baik. Pertahankan kontrol dan efisiensi yang sudah berjalan.")
	}
	return b.String()
}

// MonthlyNarrative analyses every (already filtered) detail of one month and closes with a
// verdict on the month's combined variance.
func MonthlyNarrative(monthLabel string, details []domain.DetailItem) string {
	if len(details) == 0 {
		return fmt.Sprintf("Tidak ada tugas yang sesuai dengan filter pada bulan %s.", monthLabel)
	}

	totalBudget := decimal.Zero
	totalExpense := decimal.Zero
	for _, d := range details {
		totalBudget = totalBudget.Add(d.TotalBudget())
		totalExpense = totalExpense.Add(d.TotalExpense())
	}
	variance := totalBudget.Sub(totalExpense)

	var b strings.Builder
	fmt.Fprintf(&b, "Pada bulan %s, analisis untuk %d tugas yang ditampilkan menunjukkan total anggaran %s dan total biaya %s, menghasilkan %s sebesar %s.",
		monthLabel, len(details), FormatCurrency(totalBudget), FormatCurrency(totalExpense), balanceWord(variance), FormatCurrency(variance.Abs()))

	b.WriteString("\n\nAnalisis Rincian per Tugas:")
	for _, d := range details {
		b.WriteString(TaskNarrative(d))
	}

	b.WriteString("\n\nKesimpulan Bulanan: ")
	if variance.IsNegative() {
		fmt.Fprintf(&b, "Kinerja keuangan bulan %s mengalami defisit. Perlu dilakukan evaluasi mendalam pada tugas-tugas yang melebihi anggaran untuk mencegah hal serupa terjadi di masa depan.", monthLabel)
	} else {
		fmt.Fprintf(&b, "Bulan %s menunjukkan kinerja keuangan yang baik dengan adanya sisa anggaran. Strategi efisiensi yang berhasil dapat diterapkan sebagai contoh untuk perencanaan bulan berikutnya.", monthLabel)
	}
	return b.String()
}

// TaskNarrative is the bullet paragraph for a single task. Cases are checked in order:
// no budget, budget but nothing spent, then surplus / on budget / deficit.
func TaskNarrative(d domain.DetailItem) string {
	prefix := fmt.Sprintf("\n\n• Tugas \"%s\": ", d.TaskName)
	totalBudget := d.TotalBudget()
	totalExpense := d.TotalExpense()

	if totalBudget.IsZero() {
		return prefix + "Belum memiliki alokasi anggaran. Saran: Segera susun rencana anggaran untuk tugas ini agar memiliki acuan biaya yang jelas dan terukur."
	}

	if totalExpense.IsZero() {
		suggestion, ok := unspentSuggestions[d.Status]
		if !ok {
			suggestion = defaultUnspentSuggestion
		}
		return prefix + fmt.Sprintf("Realisasi biaya masih Rp 0 dari anggaran %s. Saran: %s", FormatCurrency(totalBudget), suggestion)
	}

	variance := d.Variance()
	v := verdicts[domain.LabelFor(variance)]
	suggestion := v.suggestion + statusFollowUps[d.Status]

	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, "Realisasi biaya %s dengan selisih %s. %s", v.status, FormatCurrency(variance), v.commentary)

	var overruns []string
	for _, cv := range d.CategoryVariances() {
		if cv.Variance.IsNegative() {
			overruns = append(overruns, fmt.Sprintf("biaya %s (defisit %s)", cv.Category, FormatCurrency(cv.Variance.Abs())))
		}
	}
	if len(overruns) > 0 {
		fmt.Fprintf(&b, " Defisit terutama terjadi pada %s.", strings.Join(overruns, ", "))
	}

	fmt.Fprintf(&b, " Saran: %s", suggestion)
	return b.String()
}

func balanceWord(variance decimal.Decimal) string {
	if variance.IsNegative() {
		return "defisit"
	}
	return "sisa anggaran"
}
