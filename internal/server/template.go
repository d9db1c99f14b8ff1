package server

// jakesTemplate is the bundled ATS-friendly resume template served by
// GET /templates/jakes.
const jakesTemplate = `\documentclass[letterpaper,11pt]{article}

% Core packages for professional resume (ATS-friendly)
\usepackage{latexsym}
\usepackage[empty]{fullpage}
\usepackage{titlesec}
\usepackage{marvosym}
\usepackage[usenames,dvipsnames]{color}
\usepackage{enumitem}
\usepackage[hidelinks]{hyperref}
\usepackage{fancyhdr}
\usepackage[english]{babel}
\usepackage{tabularx}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{lmodern}
\input{glyphtounicode}

% Page formatting and margins
\pagestyle{fancy}
\fancyhf{}
\fancyfoot{}
\renewcommand{\headrulewidth}{0pt}
\renewcommand{\footrulewidth}{0pt}
\setlength{\headheight}{14pt}  % Fix fancyhdr warning
\addtolength{\oddsidemargin}{-0.5in}
\addtolength{\evensidemargin}{-0.5in}
\addtolength{\textwidth}{1in}
\addtolength{\topmargin}{-.5in}
\addtolength{\textheight}{1.0in}
\urlstyle{same}
\raggedbottom
\raggedright
\setlength{\tabcolsep}{0in}
\setlength{\parindent}{0pt}

% Section title formatting
\titleformat{\section}{
  \vspace{-4pt}\scshape\raggedright\large
}{}{0em}{}[\color{black}\titlerule \vspace{-5pt}]

% PDF settings for ATS compatibility
\pdfgentounicode=1

% Resume structure macros
\newcommand{\resumeItem}[1]{
  \item\small{
    {#1 \vspace{-2pt}}
  }
}

\newcommand{\resumeSubheading}[4]{
  \vspace{-2pt}\item
    \begin{tabular*}{0.97\textwidth}[t]{l@{\extracolsep{\fill}}r}
      \textbf{#1} & #2 \\
      \textit{\small#3} & \textit{\small #4} \\
    \end{tabular*}\vspace{-7pt}
}

\newcommand{\resumeProjectHeading}[2]{
  \item
    \begin{tabular*}{0.97\textwidth}{l@{\extracolsep{\fill}}r}
      \small#1 & #2 \\
    \end{tabular*}\vspace{-7pt}
}

\newcommand{\resumeSubSubheading}[2]{
  \item
    \begin{tabular*}{0.97\textwidth}{l@{\extracolsep{\fill}}r}
      \textit{\small#1} & \textit{\small #2} \\
    \end{tabular*}\vspace{-7pt}
}

\newcommand{\resumeSubHeadingListStart}{\begin{itemize}[leftmargin=0.15in, label={}]}
\newcommand{\resumeSubHeadingListEnd}{\end{itemize}}
\newcommand{\resumeItemListStart}{\begin{itemize}}
\newcommand{\resumeItemListEnd}{\end{itemize}\vspace{-5pt}}

\renewcommand\labelitemii{$\vcenter{\hbox{\tiny$\bullet$}}$}

\newcommand{\resumeSkillItem}[2]{
  \item{\textbf{#1:} #2}
}

\newcommand{\resumeAward}[2]{
  \item \textbf{#1} \hfill #2
}

\newcommand{\resumeCertification}[2]{
  \item #1 \hfill \textit{#2}
}

\newcommand{\resumeSubItem}[1]{\resumeItem{#1}\vspace{-4pt}}

% Safe text escaping helpers
\newcommand{\safeampersand}{\&}
\newcommand{\safedollar}{\$}
\newcommand{\safepercent}{\%}
\newcommand{\safeunderscore}{\_}

\begin{document}

% HEADER SECTION
\begin{center}
    \textbf{\Huge \scshape [Your Name]} \\ \vspace{1pt}
    \small [Phone] $|$ \href{mailto:[email]}{\underline{[email]}} $|$
    \href{[linkedin]}{\underline{linkedin.com/in/[username]}} $|$
    \href{[github]}{\underline{github.com/[username]}}
\end{center}

% EDUCATION SECTION
\section{Education}
  \resumeSubHeadingListStart
    \resumeSubheading
      {[University Name]}{[Start Date] -- [End Date]}
      {[Degree] in [Major]}{[Location]}
  \resumeSubHeadingListEnd

% TECHNICAL SKILLS SECTION
\section{Technical Skills}
 \begin{itemize}[leftmargin=0.15in, label={}]
    \small{\item{
     \textbf{Languages}{: [Programming Languages]} \\
     \textbf{Frameworks}{: [Frameworks and Libraries]} \\
     \textbf{Developer Tools}{: [Tools and Software]} \\
     \textbf{Libraries}{: [Additional Libraries]}
    }}
 \end{itemize}

% EXPERIENCE SECTION
\section{Experience}
  \resumeSubHeadingListStart
    \resumeSubheading
      {[Job Title]}{[Start Date] -- [End Date]}
      {[Company Name]}{[Location]}
      \resumeItemListStart
        \resumeItem{[Achievement or responsibility with quantified results]}
        \resumeItem{[Achievement or responsibility with quantified results]}
      \resumeItemListEnd
  \resumeSubHeadingListEnd

% PROJECTS SECTION
\section{Projects}
    \resumeSubHeadingListStart
      \resumeProjectHeading
          {\textbf{[Project Name]} \;|\; \emph{[Technologies Used]}}{[Date]}
          \resumeItemListStart
            \resumeItem{[Project description or achievement with specific metrics]}
          \resumeItemListEnd
    \resumeSubHeadingListEnd

\end{document}`
